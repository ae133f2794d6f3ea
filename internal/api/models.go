package api

// AskRequest is the payload for POST /api/ask.
type AskRequest struct {
	VideoURL  string `json:"youtube_url"`
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// AskResponse is returned from POST /api/ask. Exactly one of Answer or
// Error is meaningful, depending on Success.
type AskResponse struct {
	Success   bool   `json:"success"`
	Answer    string `json:"answer,omitempty"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// wireResponse distinguishes a missing "success" field from false.
type wireResponse struct {
	Success   *bool  `json:"success"`
	Answer    string `json:"answer"`
	Error     string `json:"error"`
	SessionID string `json:"session_id"`
}
