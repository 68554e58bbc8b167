package transport

import "time"

// ErrorBody is the JSON shape of every error response. Successful responses
// serialize their payload directly, the shape the web client consumes.
type ErrorBody struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

func NewError(code, message string) ErrorBody {
	return ErrorBody{
		Status: "error",
		Code:   code,
		Error:  message,
	}
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type StatusResponse struct {
	Status           string    `json:"status"`
	StorageConnected bool      `json:"storageConnected"`
	Timestamp        time.Time `json:"timestamp"`
}
