package dto

import "github.com/helphub-ai/support-intake/internal/domain"

// VolumeResponse wraps a zero-filled daily ticket-volume series.
type VolumeResponse struct {
	Days   int                  `json:"days"`
	Points []domain.VolumePoint `json:"points"`
}

// RootCauseRequest selects the category to analyze.
type RootCauseRequest struct {
	Category string `json:"category"`
}

// RootCauseResponse carries the LLM's common-theme analysis.
type RootCauseResponse struct {
	Category string `json:"category"`
	Analysis string `json:"analysis"`
}
