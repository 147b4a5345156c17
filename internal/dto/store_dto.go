package dto

type UpsertStoreSettingRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"   validate:"omitempty,min=6,max=20"`
	Email   string  `json:"email"   validate:"omitempty,email"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

type StoreSettingResponse struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	LogoURL *string `json:"logo_url"`
}
