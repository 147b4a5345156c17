package dto

type CreateTechnicianRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=120"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	Specialty   string `json:"specialty"`
}

type UpdateTechnicianRequest struct {
	Name        *string `json:"name"         validate:"omitempty,min=2,max=120"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	Specialty   *string `json:"specialty"`
}

type TechnicianResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Specialty   string `json:"specialty"`
	Active      bool   `json:"active"`
}
