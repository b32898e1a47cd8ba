package handlers

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueueStatusResponse reports how many players are waiting for a match.
type QueueStatusResponse struct {
	Waiting int64 `json:"waiting"`
}
