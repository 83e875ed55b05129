// Package transport defines request/response DTOs for purchase orders.
package transport

import "time"

// CreatePurchaseOrderRequest is the payload for recording a PO against a lead.
type CreatePurchaseOrderRequest struct {
	LeadID          int64      `json:"leadId" validate:"required,gt=0"`
	AmountReceived  float64    `json:"amountReceived" validate:"gte=0"`
	AmountRemaining float64    `json:"amountRemaining" validate:"gte=0"`
	ReleaseDate     *time.Time `json:"releaseDate"`
	Note            string     `json:"note" validate:"omitempty,max=2000"`
}

// ListPurchaseOrdersQuery carries the filter parameters for PO listings.
type ListPurchaseOrdersQuery struct {
	Page      int    `form:"page"`
	Query     string `form:"query"`
	MineOnly  bool   `form:"mineOnly"`
	CompanyID *int64 `form:"companyId"`
}

// PurchaseOrderResponse is the wire shape of a purchase order.
type PurchaseOrderResponse struct {
	ID              int64      `json:"id"`
	LeadID          int64      `json:"leadId"`
	AmountReceived  float64    `json:"amountReceived"`
	AmountRemaining float64    `json:"amountRemaining"`
	ReleaseDate     *time.Time `json:"releaseDate,omitempty"`
	Note            *string    `json:"note,omitempty"`
	CreatedByEmail  string     `json:"createdByEmail"`
	CompanyID       *int64     `json:"companyId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ListPurchaseOrdersResponse is the paginated PO listing result.
type ListPurchaseOrdersResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Count int64                   `json:"count"`
}
