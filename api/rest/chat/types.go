package chat

import "github.com/Abdellatifemara/Forma-sub000/internal/pipeline"

// MessageRequest is the inbound chat payload.
type MessageRequest struct {
	Message  string          `json:"message" binding:"required"`
	Language string          `json:"language"` // "en" (default) or "ar"
	History  []pipeline.Turn `json:"conversation_history"`
}

// HistoryResponse wraps stored chat turns.
type HistoryResponse struct {
	Messages any `json:"messages"`
}
