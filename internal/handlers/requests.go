package handlers

import "github.com/spainrp/awards/internal/models"

// LoginRequest carries the OAuth2 authorization code from the dashboard
type LoginRequest struct {
	Code string `json:"code"`
}

// ConfigUpdateRequest updates awards and/or colors. Omitted fields are kept.
type ConfigUpdateRequest struct {
	Awards []models.Category `json:"awards"`
	Colors *models.Colors    `json:"colors"`
}

// VoteUpdateRequest is a partial re-vote: category id to candidate value
type VoteUpdateRequest struct {
	Votes map[string]string `json:"votes"`
}
