package models

import "time"

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
	UserID  string `json:"user_id,omitempty" validate:"omitempty,max=64"`
}

type ChatResponse struct {
	Response         string            `json:"response"`
	RecommendedBooks []Book            `json:"recommended_books"`
	Intent           string            `json:"intent"`
	Confidence       float64           `json:"confidence"`
	Entities         map[string]string `json:"entities,omitempty"`
	ProcessingUsed   string            `json:"processing_used,omitempty"`
	Suggestions      []string          `json:"suggestions,omitempty"`
}

// ChatTurn is one persisted exchange between a user and the assistant.
type ChatTurn struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Message    string    `json:"message"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Response   string    `json:"response"`
	BookIDs    []int     `json:"book_ids"`
	At         time.Time `json:"at"`
}
