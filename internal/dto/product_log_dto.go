package dto

import "github.com/shopspring/decimal"

type ProductLogFilter struct {
	Action string `form:"action"`
	Voided string `form:"voided"` // "true" | "false" | "" (all)
	Page   int    `form:"page,default=1"    validate:"min=1"`
	Limit  int    `form:"limit,default=50"  validate:"min=1,max=200"`
}

type ProductLogResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	UserID         *string          `json:"user_id"`
	Action         string           `json:"action"`
	QuantityChange int              `json:"quantity_change"`
	TotalRevenue   *decimal.Decimal `json:"total_revenue"`
	TotalProfit    *decimal.Decimal `json:"total_profit"`
	Description    string           `json:"description"`
	IsVoided       bool             `json:"is_voided"`
	CreatedAt      string           `json:"created_at"`
}

type ProductLogListResponse struct {
	Data  []ProductLogResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
