package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/faktura/internal/partner/domain"
	"github.com/smallbiznis/faktura/pkg/db"
	"github.com/smallbiznis/faktura/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("partner.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePartnerRequest) (domain.Partner, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Partner{}, domain.ErrInvalidName
	}

	kind := domain.PartnerKind(strings.TrimSpace(req.Kind))
	if !kind.Valid() {
		return domain.Partner{}, domain.ErrInvalidKind
	}

	now := time.Now().UTC()
	partner := domain.Partner{
		ID:        s.genID.Generate(),
		Name:      name,
		Kind:      kind,
		TaxID:     strings.TrimSpace(req.TaxID),
		Address:   strings.TrimSpace(req.Address),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &partner); err != nil {
		return domain.Partner{}, err
	}

	return partner, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPartnerRequest) (domain.ListPartnerResponse, error) {
	filter := domain.ListPartnerFilter{
		Name: strings.TrimSpace(req.Name),
	}

	if kind := strings.TrimSpace(req.Kind); kind != "" {
		parsed := domain.PartnerKind(kind)
		if !parsed.Valid() {
			return domain.ListPartnerResponse{}, domain.ErrInvalidKind
		}
		filter.Kind = parsed
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
		return domain.ListPartnerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(partner *domain.Partner) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        partner.ID.String(),
			CreatedAt: partner.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	partners := make([]domain.Partner, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		partners = append(partners, *item)
	}

	resp := domain.ListPartnerResponse{Partners: partners}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPartnerRequest) (domain.Partner, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Partner{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Partner{}, err
	}
	if item == nil {
		return domain.Partner{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePartnerRequest) (domain.Partner, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Partner{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Partner{}, err
	}
	if item == nil {
		return domain.Partner{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Partner{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.TaxID != nil {
		item.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Address != nil {
		item.Address = strings.TrimSpace(*req.Address)
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Partner{}, err
	}

	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeletePartnerRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	inUse, err := s.repo.HasInvoices(ctx, s.db, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrPartnerInUse
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		if db.IsForeignKeyErr(err) {
			return domain.ErrPartnerInUse
		}
		return err
	}

	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
