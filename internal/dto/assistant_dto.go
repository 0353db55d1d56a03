package dto

import (
	"time"

	"github.com/google/uuid"

	"alvely-be/pkg/search"
)

type CreateSessionRequest struct {
	ModelId string `json:"model_id,omitempty"`
}

type CreateSessionResponse struct {
	Id      uuid.UUID `json:"id"`
	ModelId string    `json:"model_id"`
}

type SubmitQueryRequest struct {
	Query string `json:"query" validate:"required"`
	Mode  string `json:"mode" validate:"required,oneof=text image"`
}

type SubmitQueryResponse struct {
	SessionId uuid.UUID            `json:"session_id"`
	Answer    string               `json:"answer,omitempty"`
	Sources   []search.WebResult   `json:"sources,omitempty"`
	Images    []search.ImageResult `json:"images,omitempty"`
}

type LoadMoreRequest struct {
	Mode string `json:"mode" validate:"required,oneof=text image"`
}

type UploadAttachmentRequest struct {
	Name string `json:"name" validate:"required"`
	// Base64 encoded file content
	Data string `json:"data" validate:"required"`
}

type UploadPDFPagesRequest struct {
	Name string `json:"name" validate:"required"`
	// Base64 encoded, pre-rendered page images
	Pages []string `json:"pages" validate:"required,min=1"`
}

type UploadAttachmentResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type ChangeModelRequest struct {
	ModelId string `json:"model_id" validate:"required"`
}

type HistoryTurnResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SessionHistoryResponse struct {
	SessionId uuid.UUID             `json:"session_id"`
	ModelId   string                `json:"model_id"`
	Turns     []HistoryTurnResponse `json:"turns"`
}

// RetrievalEventDTO mirrors the websocket emission shape for REST polling.
type RetrievalEventDTO struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
