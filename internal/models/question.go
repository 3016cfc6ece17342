package models

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question *string `json:"question"`
}

// AskResponse is the body returned by POST /ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	ModelAvailable bool   `json:"model_available"`
	Model          string `json:"model,omitempty"`
}
