package domain

import "time"

// Identity is the resolved owner of a request: a numeric user id plus an
// optional display name. It is derived per request and never persisted.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

func (i Identity) IsZero() bool {
	return i.ID == 0
}

// Presence is an observability-only last-active record kept in Redis.
// It has no effect on task operations.
type Presence struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}
