package api

// ChatResponse is returned when a provider answered the question.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body returned when no provider could answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Time   string `json:"time"`
}
