package handlers

import "github.com/spainrp/awards/internal/models"

// RootResponse is served at GET /
type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// LoginUser is the user object returned on login
type LoginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginResponse returns the token in the body too for clients that can't
// keep third-party cookies.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
	Token   string    `json:"token"`
}

// ConfigResponse is the stored config plus validation warnings
type ConfigResponse struct {
	*models.AwardConfig
	Warnings []string `json:"warnings,omitempty"`
}

// MyVoteResponse answers GET /api/votes/me
type MyVoteResponse struct {
	Found bool         `json:"found"`
	Vote  *models.Vote `json:"vote,omitempty"`
}

// VoteUpdateResponse answers PUT /api/votes/me
type VoteUpdateResponse struct {
	Success bool         `json:"success"`
	Vote    *models.Vote `json:"vote"`
}
