package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/faktura/pkg/db/pagination"
)

type CreatePartnerRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

type ListPartnerRequest struct {
	PageToken string
	PageSize  int32
	Kind      string
	Name      string
}

type ListPartnerFilter struct {
	Kind PartnerKind
	Name string
}

type ListPartnerResponse struct {
	pagination.PageInfo
	Partners []Partner `json:"partners"`
}

type GetPartnerRequest struct {
	ID string
}

type UpdatePartnerRequest struct {
	ID      string  `json:"-"`
	Name    *string `json:"name"`
	TaxID   *string `json:"tax_id"`
	Address *string `json:"address"`
}

type DeletePartnerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreatePartnerRequest) (Partner, error)
	List(context.Context, ListPartnerRequest) (ListPartnerResponse, error)
	GetByID(context.Context, GetPartnerRequest) (Partner, error)
	Update(context.Context, UpdatePartnerRequest) (Partner, error)
	Delete(context.Context, DeletePartnerRequest) error
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidKind  = errors.New("invalid_kind")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrPartnerInUse = errors.New("partner_in_use")
)
