package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/faktura/internal/config"
	"github.com/smallbiznis/faktura/internal/product/domain"
	"github.com/smallbiznis/faktura/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Cfg:   config.Config{Invoice: config.InvoiceConfig{DefaultVATRate: 27}},
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateProduct(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, domain.CreateProductRequest{
		SKU:            "SKU001",
		Name:           "Kávéfőző",
		UnitPriceCents: 69900,
	})
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, int64(27), product.VATRate)
	assert.True(t, product.Active)
}

func TestCreateProductExplicitRate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	rate := int64(5)
	product, err := svc.Create(ctx, domain.CreateProductRequest{
		SKU:            "SKU002",
		Name:           "Szakkönyv",
		UnitPriceCents: 39900,
		VATRate:        &rate,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), product.VATRate)
}

func TestCreateProductValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateProductRequest{SKU: "", Name: "X", UnitPriceCents: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidSKU)

	_, err = svc.Create(ctx, domain.CreateProductRequest{SKU: "S", Name: " ", UnitPriceCents: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateProductRequest{SKU: "S", Name: "X", UnitPriceCents: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	bad := int64(-5)
	_, err = svc.Create(ctx, domain.CreateProductRequest{SKU: "S", Name: "X", UnitPriceCents: 100, VATRate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidVATRate)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateProductRequest{SKU: "SKU001", Name: "First", UnitPriceCents: 100})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateProductRequest{SKU: "SKU001", Name: "Second", UnitPriceCents: 200})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestArchiveProductHidesFromList(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, domain.CreateProductRequest{SKU: "SKU003", Name: "Monitor", UnitPriceCents: 299900})
	assert.NoError(t, err)

	archived, err := svc.Archive(ctx, domain.ArchiveProductRequest{ID: product.ID.String()})
	assert.NoError(t, err)
	assert.False(t, archived.Active)

	resp, err := svc.List(ctx, domain.ListProductRequest{})
	assert.NoError(t, err)
	assert.Empty(t, resp.Products)

	resp, err = svc.List(ctx, domain.ListProductRequest{IncludeAll: true})
	assert.NoError(t, err)
	assert.Len(t, resp.Products, 1)

	got, err := svc.GetByID(ctx, domain.GetProductRequest{ID: product.ID.String()})
	assert.NoError(t, err)
	assert.False(t, got.Active)
}

func TestUpdateProduct(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, domain.CreateProductRequest{SKU: "SKU004", Name: "Egér", UnitPriceCents: 5990})
	assert.NoError(t, err)

	price := int64(6490)
	rate := int64(18)
	updated, err := svc.Update(ctx, domain.UpdateProductRequest{
		ID:             product.ID.String(),
		UnitPriceCents: &price,
		VATRate:        &rate,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(6490), updated.UnitPriceCents)
	assert.Equal(t, int64(18), updated.VATRate)
	assert.Equal(t, "Egér", updated.Name)
}
