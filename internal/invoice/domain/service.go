package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/faktura/internal/invoice/vat"
	"github.com/smallbiznis/faktura/pkg/db/pagination"
)

type CreateInvoiceRequest struct {
	PartnerID string     `json:"partner_id"`
	Direction string     `json:"direction"`
	Number    string     `json:"number"`
	Notes     string     `json:"notes"`
	IssuedAt  *time.Time `json:"issued_at"`
}

type ListInvoiceRequest struct {
	PageToken   string
	PageSize    int32
	Direction   string
	PartnerID   string
	Number      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListInvoiceFilter struct {
	Direction   InvoiceDirection
	PartnerID   int64
	Number      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type GetInvoiceRequest struct {
	ID string
}

// InvoiceDetail is an invoice with its items and freshly computed
// totals.
type InvoiceDetail struct {
	Invoice Invoice       `json:"invoice"`
	Items   []InvoiceItem `json:"items"`
	Totals  vat.Totals    `json:"totals"`
}

type UpdateInvoiceRequest struct {
	ID        string     `json:"-"`
	Number    *string    `json:"number"`
	PartnerID *string    `json:"partner_id"`
	Notes     *string    `json:"notes"`
	IssuedAt  *time.Time `json:"issued_at"`
}

type DeleteInvoiceRequest struct {
	ID string
}

type AddItemRequest struct {
	InvoiceID      string `json:"-"`
	ProductID      string `json:"product_id"`
	Quantity       int64  `json:"quantity"`
	Description    string `json:"description"`
	UnitPriceCents *int64 `json:"unit_price_cents"`
	VATRate        *int64 `json:"vat_rate"`
}

type UpdateItemRequest struct {
	InvoiceID      string `json:"-"`
	ItemID         string `json:"-"`
	Quantity       *int64 `json:"quantity"`
	Description    *string `json:"description"`
	UnitPriceCents *int64 `json:"unit_price_cents"`
	VATRate        *int64 `json:"vat_rate"`
}

type RemoveItemRequest struct {
	InvoiceID string
	ItemID    string
}

type TotalsRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(context.Context, GetInvoiceRequest) (InvoiceDetail, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	Delete(context.Context, DeleteInvoiceRequest) error
	AddItem(context.Context, AddItemRequest) (InvoiceItem, error)
	UpdateItem(context.Context, UpdateItemRequest) (InvoiceItem, error)
	RemoveItem(context.Context, RemoveItemRequest) error
	Totals(context.Context, TotalsRequest) (vat.Totals, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidDirection = errors.New("invalid_direction")
	ErrInvalidPartner   = errors.New("invalid_partner")
	ErrInvalidProduct   = errors.New("invalid_product")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidVATRate   = errors.New("invalid_vat_rate")
	ErrInvalidNumber    = errors.New("invalid_number")
	ErrDuplicateNumber  = errors.New("duplicate_number")
	ErrNotFound         = errors.New("not_found")
	ErrItemNotFound     = errors.New("item_not_found")
)
