package handler

import "github.com/mentorlink/sphere-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type signupRequest struct {
	Username       string `json:"username"        validate:"required"`
	Password       string `json:"password"        validate:"required,min=8"`
	Email          string `json:"email"           validate:"required,email"`
	IsMentor       bool   `json:"is_mentor"`
	IsStudent      bool   `json:"is_student"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
}

type signupResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}
