// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"tradereg/internal/core/id"
	"tradereg/internal/domain/values"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Mutation Response ---

// MutationResponse wraps a written entity together with the outcome of its
// dynamic cell batch. Cells follow the per-cell policy, so a response can be
// 201/200 with failed cells listed here.
type MutationResponse struct {
	Item  any                `json:"item"`
	Cells values.WriteResult `json:"cells"`
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
