package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// JoinQueueRequest defines the DTO for the queue join endpoint.
type JoinQueueRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
}

// LeaveQueueRequest defines the DTO for the queue leave endpoint.
type LeaveQueueRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
}
