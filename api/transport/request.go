package transport

type CreateTaskRequest struct {
	Text        string `json:"text"`
	DisplayName string `json:"displayName"`
}

// UpdateTaskRequest uses a pointer so a missing completed field is
// distinguishable from an explicit false.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed"`
}
