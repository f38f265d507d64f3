package dto

import "encoding/json"

// CreateUserRequest is the payload for provisioning a new user.
// InitialBalance is a json.Number so both "100.50" and 100.50 arrive as the
// literal the client sent.
type CreateUserRequest struct {
	UserID         string      `json:"userId" binding:"required"`
	InitialBalance json.Number `json:"initialBalance"`
}

// UserResponse represents a newly created user
type UserResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
	Version int64  `json:"version"`
}

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
	Version int64  `json:"version"`
}
