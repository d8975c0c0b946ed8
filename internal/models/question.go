package models

// Question is a question-bank entry handed to a new session.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}
