package domain

import (
	"errors"
	"time"
)

var ErrMentorNotFound = errors.New("mentor not found")

// Mentor is a public mentor profile. It carries no reference to a User
// account; the two are managed independently.
type Mentor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Expertise string    `json:"expertise"`
	Bio       string    `json:"bio"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
