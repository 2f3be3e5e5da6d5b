package models

import "time"

// User is the internal user record keyed by the Telegram user ID.
type User struct {
	ID           int64     `json:"id" example:"123456789"`
	Username     string    `json:"username" example:"johndoe"`
	FirstName    string    `json:"first_name" example:"John"`
	LastName     string    `json:"last_name" example:"Doe"`
	LanguageCode string    `json:"language_code" example:"en"`
	CreatedAt    time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-03-15T14:30:00Z"`
}

// UserResponse is the public view of a user returned by the API.
type UserResponse struct {
	ID           int64     `json:"id" example:"123456789"`
	Username     string    `json:"username" example:"johndoe"`
	FirstName    string    `json:"first_name" example:"John"`
	LastName     string    `json:"last_name" example:"Doe"`
	LanguageCode string    `json:"language_code" example:"en"`
	CreatedAt    time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
}

// ErrorResponse mirrors the body rendered by the error middleware.
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2024-03-15T14:30:00Z"`
	RequestID string       `json:"request_id" example:"0b1f7e26-5a83-4b52-9c0e-8a3d6f7c1d42"`
}

// ErrorDetail is the typed error inside an ErrorResponse.
type ErrorDetail struct {
	Code    string `json:"code" example:"USER_NOT_FOUND"`
	Message string `json:"message" example:"User not found: 123456789"`
}
