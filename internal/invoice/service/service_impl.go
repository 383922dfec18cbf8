package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/faktura/internal/config"
	"github.com/smallbiznis/faktura/internal/invoice/domain"
	"github.com/smallbiznis/faktura/internal/invoice/format"
	"github.com/smallbiznis/faktura/internal/invoice/vat"
	partnerdomain "github.com/smallbiznis/faktura/internal/partner/domain"
	productdomain "github.com/smallbiznis/faktura/internal/product/domain"
	"github.com/smallbiznis/faktura/pkg/db"
	"github.com/smallbiznis/faktura/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	GenID       *snowflake.Node
	Repo        domain.Repository
	PartnerRepo partnerdomain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.Config
	genID       *snowflake.Node
	repo        domain.Repository
	partnerRepo partnerdomain.Repository
	productRepo productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		cfg:         p.Cfg,
		genID:       p.GenID,
		repo:        p.Repo,
		partnerRepo: p.PartnerRepo,
		productRepo: p.ProductRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	partnerID, err := s.parseID(req.PartnerID)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidPartner
	}

	direction := domain.InvoiceDirection(strings.TrimSpace(req.Direction))
	if !direction.Valid() {
		return domain.Invoice{}, domain.ErrInvalidDirection
	}

	partner, err := s.partnerRepo.FindByID(ctx, s.db, partnerID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if partner == nil {
		return domain.Invoice{}, domain.ErrInvalidPartner
	}

	now := time.Now().UTC()
	issuedAt := now
	if req.IssuedAt != nil {
		issuedAt = req.IssuedAt.UTC()
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.repo.NextSeq(ctx, tx)
		if err != nil {
			return err
		}

		number := strings.TrimSpace(req.Number)
		if number == "" {
			number, err = format.FormatInvoiceNumber(s.cfg.Invoice.NumberTemplate, issuedAt, seq)
			if err != nil {
				return err
			}
		}

		invoice = domain.Invoice{
			ID:        s.genID.Generate(),
			Number:    number,
			Seq:       seq,
			PartnerID: partnerID,
			Direction: direction,
			Notes:     strings.TrimSpace(req.Notes),
			IssuedAt:  &issuedAt,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		return domain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("number", invoice.Number),
		zap.String("direction", string(invoice.Direction)),
	)

	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := domain.ListInvoiceFilter{
		Number:      strings.TrimSpace(req.Number),
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}

	if direction := strings.TrimSpace(req.Direction); direction != "" {
		parsed := domain.InvoiceDirection(direction)
		if !parsed.Valid() {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidDirection
		}
		filter.Direction = parsed
	}

	if partnerID := strings.TrimSpace(req.PartnerID); partnerID != "" {
		id, err := s.parseID(partnerID)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidPartner
		}
		filter.PartnerID = int64(id)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.InvoiceDetail, error) {
	invoice, err := s.findInvoice(ctx, req.ID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	items, err := s.repo.ListItems(ctx, s.db, invoice.ID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	totals, err := computeTotals(items)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	return domain.InvoiceDetail{
		Invoice: *invoice,
		Items:   items,
		Totals:  totals,
	}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.findInvoice(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if req.Number != nil {
		number := strings.TrimSpace(*req.Number)
		if number == "" {
			return domain.Invoice{}, domain.ErrInvalidNumber
		}
		invoice.Number = number
	}
	if req.PartnerID != nil {
		partnerID, err := s.parseID(*req.PartnerID)
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidPartner
		}
		partner, err := s.partnerRepo.FindByID(ctx, s.db, partnerID)
		if err != nil {
			return domain.Invoice{}, err
		}
		if partner == nil {
			return domain.Invoice{}, domain.ErrInvalidPartner
		}
		invoice.PartnerID = partnerID
	}
	if req.Notes != nil {
		invoice.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.IssuedAt != nil {
		issuedAt := req.IssuedAt.UTC()
		invoice.IssuedAt = &issuedAt
	}
	invoice.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		return domain.Invoice{}, err
	}

	return *invoice, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteInvoiceRequest) error {
	invoice, err := s.findInvoice(ctx, req.ID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, s.db, invoice.ID)
}

func (s *Service) AddItem(ctx context.Context, req domain.AddItemRequest) (domain.InvoiceItem, error) {
	invoice, err := s.findInvoice(ctx, req.InvoiceID)
	if err != nil {
		return domain.InvoiceItem{}, err
	}

	productID, err := s.parseID(req.ProductID)
	if err != nil {
		return domain.InvoiceItem{}, domain.ErrInvalidProduct
	}

	product, err := s.productRepo.FindByID(ctx, s.db, productID)
	if err != nil {
		return domain.InvoiceItem{}, err
	}
	if product == nil {
		return domain.InvoiceItem{}, domain.ErrInvalidProduct
	}

	if req.Quantity < 0 {
		return domain.InvoiceItem{}, domain.ErrInvalidQuantity
	}

	// Snapshot price and rate from the catalog unless the caller
	// overrides them.
	unitPrice := product.UnitPriceCents
	if req.UnitPriceCents != nil {
		if *req.UnitPriceCents < 0 {
			return domain.InvoiceItem{}, domain.ErrInvalidPrice
		}
		unitPrice = *req.UnitPriceCents
	}

	vatRate := product.VATRate
	if req.VATRate != nil {
		if *req.VATRate < 0 {
			return domain.InvoiceItem{}, domain.ErrInvalidVATRate
		}
		vatRate = *req.VATRate
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = product.Name
	}

	item := domain.InvoiceItem{
		ID:             s.genID.Generate(),
		InvoiceID:      invoice.ID,
		ProductID:      productID,
		Description:    description,
		Quantity:       req.Quantity,
		UnitPriceCents: unitPrice,
		VATRate:        vatRate,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.InsertItem(ctx, s.db, &item); err != nil {
		return domain.InvoiceItem{}, err
	}

	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, req domain.UpdateItemRequest) (domain.InvoiceItem, error) {
	item, err := s.findItem(ctx, req.InvoiceID, req.ItemID)
	if err != nil {
		return domain.InvoiceItem{}, err
	}

	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return domain.InvoiceItem{}, domain.ErrInvalidQuantity
		}
		item.Quantity = *req.Quantity
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.UnitPriceCents != nil {
		if *req.UnitPriceCents < 0 {
			return domain.InvoiceItem{}, domain.ErrInvalidPrice
		}
		item.UnitPriceCents = *req.UnitPriceCents
	}
	if req.VATRate != nil {
		if *req.VATRate < 0 {
			return domain.InvoiceItem{}, domain.ErrInvalidVATRate
		}
		item.VATRate = *req.VATRate
	}

	if err := s.repo.UpdateItem(ctx, s.db, item); err != nil {
		return domain.InvoiceItem{}, err
	}

	return *item, nil
}

func (s *Service) RemoveItem(ctx context.Context, req domain.RemoveItemRequest) error {
	item, err := s.findItem(ctx, req.InvoiceID, req.ItemID)
	if err != nil {
		return err
	}

	return s.repo.DeleteItem(ctx, s.db, item.ID)
}

func (s *Service) Totals(ctx context.Context, req domain.TotalsRequest) (vat.Totals, error) {
	invoice, err := s.findInvoice(ctx, req.ID)
	if err != nil {
		return vat.Totals{}, err
	}

	items, err := s.repo.ListItems(ctx, s.db, invoice.ID)
	if err != nil {
		return vat.Totals{}, err
	}

	return computeTotals(items)
}

func (s *Service) findInvoice(ctx context.Context, rawID string) (*domain.Invoice, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) findItem(ctx context.Context, rawInvoiceID, rawItemID string) (*domain.InvoiceItem, error) {
	invoice, err := s.findInvoice(ctx, rawInvoiceID)
	if err != nil {
		return nil, err
	}

	itemID, err := s.parseID(rawItemID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItemByID(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.InvoiceID != invoice.ID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func computeTotals(items []domain.InvoiceItem) (vat.Totals, error) {
	lines := make([]vat.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.LineItem())
	}
	return vat.ComputeTotals(lines)
}
