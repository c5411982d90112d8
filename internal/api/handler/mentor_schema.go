package handler

type mentorRequest struct {
	Name      string `json:"name"      validate:"required"`
	Expertise string `json:"expertise"`
	Bio       string `json:"bio"`
	Email     string `json:"email"     validate:"required,email"`
}
