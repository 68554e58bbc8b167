package monitor

import "time"

type Status struct {
	Postgres  bool      `json:"postgres"`
	Redis     bool      `json:"redis"`
	BotState  bool      `json:"bot_state"`
	LastCheck time.Time `json:"last_check"`
}
