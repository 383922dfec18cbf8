package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/faktura/pkg/db/pagination"
)

type CreateProductRequest struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	VATRate        *int64 `json:"vat_rate"`
}

type ListProductRequest struct {
	PageToken  string
	PageSize   int32
	SKU        string
	Name       string
	IncludeAll bool
}

type ListProductFilter struct {
	SKU        string
	Name       string
	IncludeAll bool
}

type ListProductResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

type GetProductRequest struct {
	ID string
}

type UpdateProductRequest struct {
	ID             string  `json:"-"`
	Name           *string `json:"name"`
	UnitPriceCents *int64  `json:"unit_price_cents"`
	VATRate        *int64  `json:"vat_rate"`
	Active         *bool   `json:"active"`
}

type ArchiveProductRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	List(context.Context, ListProductRequest) (ListProductResponse, error)
	GetByID(context.Context, GetProductRequest) (Product, error)
	Update(context.Context, UpdateProductRequest) (Product, error)
	Archive(context.Context, ArchiveProductRequest) (Product, error)
}

var (
	ErrInvalidSKU     = errors.New("invalid_sku")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidVATRate = errors.New("invalid_vat_rate")
	ErrDuplicateSKU   = errors.New("duplicate_sku")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
