package api

// ChatRequest is the body accepted by POST /api/chat.
type ChatRequest struct {
	// the user's question, must contain non-whitespace text
	Message string `json:"message" binding:"required,notblank"`

	// optional dashboard readings embedded into the prompt, e.g. {"currentUsageKw": 2.3}
	ContextData map[string]interface{} `json:"contextData,omitempty"`
}
