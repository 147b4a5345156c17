package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ServiceItemRequest struct {
	Name  string          `json:"name"  validate:"required,min=2,max=120"`
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
}

type CreateServiceRequest struct {
	Brand         string               `json:"brand"          validate:"required"`
	Model         string               `json:"model"          validate:"required"`
	CustomerName  string               `json:"customer_name"  validate:"required,min=2,max=120"`
	PhoneNumber   string               `json:"phone_number"   validate:"required,min=6,max=20"`
	CustomerEmail *string              `json:"customer_email" validate:"omitempty,email"`
	Description   string               `json:"description"`
	Discount      *int                 `json:"discount"       validate:"omitempty,min=0,max=100"`
	TechnicianID  *string              `json:"technician_id"  validate:"omitempty,uuid"`
	ServiceList   []ServiceItemRequest `json:"service_list"   validate:"required,min=1,dive"`
}

type UpdateServiceRequest struct {
	Brand          *string              `json:"brand"`
	Model          *string              `json:"model"`
	Status         *string              `json:"status"          validate:"omitempty,oneof=PENDING PROCESS FINISHED TAKEN CANCELED"`
	TechnicianNote *string              `json:"technician_note"`
	Discount       *int                 `json:"discount"        validate:"omitempty,min=0,max=100"`
	TechnicianID   *string              `json:"technician_id"   validate:"omitempty,uuid"`
	ServiceList    []ServiceItemRequest `json:"service_list"    validate:"omitempty,min=1,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ServiceFilter struct {
	Status       string `form:"status"`
	CustomerName string `form:"customer_name"`
	Code         string `form:"code"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ServiceItemResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ServiceResponse struct {
	ID             string                `json:"id"`
	Code           string                `json:"code"`
	Brand          string                `json:"brand"`
	Model          string                `json:"model"`
	CustomerName   string                `json:"customer_name"`
	PhoneNumber    string                `json:"phone_number"`
	CustomerEmail  *string               `json:"customer_email"`
	Description    string                `json:"description"`
	TechnicianNote *string               `json:"technician_note"`
	Status         string                `json:"status"`
	Discount       int                   `json:"discount"`
	SubTotal       decimal.Decimal       `json:"sub_total"`
	TotalPrice     decimal.Decimal       `json:"total_price"`
	TotalItems     int                   `json:"total_items"`
	TechnicianID   *string               `json:"technician_id"`
	Items          []ServiceItemResponse `json:"service_list"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
}

type ServiceListResponse struct {
	Data       []ServiceResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type ServiceLogResponse struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"service_id"`
	UserID      *string `json:"user_id"`
	Action      string  `json:"action"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}
