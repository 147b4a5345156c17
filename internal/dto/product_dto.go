package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	Brand        string          `json:"brand"         validate:"required"`
	Manufacturer string          `json:"manufacturer"`
	Category     string          `json:"category"      validate:"required"`
	Price        decimal.Decimal `json:"price"         validate:"required"`
	// Cost price must not exceed the selling price — enforced here at the
	// validation boundary, not inside the engine.
	CostPrice decimal.Decimal `json:"cost_price" validate:"required,ltefield=Price"`
	Stock     int             `json:"stock"      validate:"min=0"`
	ImageURL  *string         `json:"image_url"  validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"         validate:"omitempty,min=2,max=120"`
	Brand        *string          `json:"brand"`
	Manufacturer *string          `json:"manufacturer"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	ImageURL     *string          `json:"image_url"    validate:"omitempty,url"`
}

// AdjustStockRequest carries the target stock value plus the action tag that
// classifies the mutation. Stock is a pointer so that an explicit 0 survives
// binding.
type AdjustStockRequest struct {
	Stock       *int   `json:"stock"        validate:"required,min=0"`
	StockAction string `json:"stock_action" validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"name"`
	Brand    string `form:"brand"`
	Category string `form:"category"`
	Active   string `form:"active"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Manufacturer string          `json:"manufacturer"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Stock        int             `json:"stock"`
	ImageURL     *string         `json:"image_url"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// PublicProductResponse is the projection served on the unauthenticated
// read path: no cost price, no soft-delete state.
type PublicProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"in_stock"`
	ImageURL  *string         `json:"image_url"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
