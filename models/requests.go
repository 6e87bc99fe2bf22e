package models

// ChatRequest is the payload for submitting a user utterance to a session.
type ChatRequest struct {
	Message string `json:"message"`
}
