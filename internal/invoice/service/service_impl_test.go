package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/faktura/internal/config"
	"github.com/smallbiznis/faktura/internal/invoice/domain"
	"github.com/smallbiznis/faktura/internal/invoice/repository"
	partnerdomain "github.com/smallbiznis/faktura/internal/partner/domain"
	partnerrepo "github.com/smallbiznis/faktura/internal/partner/repository"
	productdomain "github.com/smallbiznis/faktura/internal/product/domain"
	productrepo "github.com/smallbiznis/faktura/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	db      *gorm.DB
	node    *snowflake.Node
	partner partnerdomain.Partner
	product productdomain.Product
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&partnerdomain.Partner{},
		&productdomain.Product{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	now := time.Now().UTC()
	partner := partnerdomain.Partner{
		ID:        node.Generate(),
		Name:      "Teszt Kft.",
		Kind:      partnerdomain.KindCustomer,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	assert.NoError(t, db.Create(&partner).Error)

	product := productdomain.Product{
		ID:             node.Generate(),
		SKU:            "SKU001",
		Name:           "Kávéfőző",
		UnitPriceCents: 69900,
		VATRate:        5,
		Active:         true,
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	assert.NoError(t, db.Create(&product).Error)

	svc := New(Params{
		DB:  db,
		Log: zap.NewNop(),
		Cfg: config.Config{
			Invoice: config.InvoiceConfig{
				NumberTemplate: "INV-{YYYY}{MM}{DD}-{SEQ4}",
				DefaultVATRate: 27,
			},
		},
		GenID:       node,
		Repo:        repository.Provide(),
		PartnerRepo: partnerrepo.Provide(),
		ProductRepo: productrepo.Provide(),
	})

	return &fixture{svc: svc, db: db, node: node, partner: partner, product: product}
}

func TestCreateInvoiceGeneratesNumber(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
		IssuedAt:  &issuedAt,
	})
	assert.NoError(t, err)
	assert.Equal(t, "INV-20260314-0001", invoice.Number)
	assert.Equal(t, int64(1), invoice.Seq)

	second, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
		IssuedAt:  &issuedAt,
	})
	assert.NoError(t, err)
	assert.Equal(t, "INV-20260314-0002", second.Number)
	assert.Equal(t, int64(2), second.Seq)
}

func TestCreateInvoiceExplicitNumber(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "purchase",
		Number:    "SUP-2026-001",
	})
	assert.NoError(t, err)
	assert.Equal(t, "SUP-2026-001", invoice.Number)

	_, err = f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "purchase",
		Number:    "SUP-2026-001",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "transfer",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	_, err = f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.node.Generate().String(),
		Direction: "sale",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPartner)
}

func TestAddItemCopiesProductPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	item, err := f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID: invoice.ID.String(),
		ProductID: f.product.ID.String(),
		Quantity:  2,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(69900), item.UnitPriceCents)
	assert.Equal(t, int64(5), item.VATRate)
	assert.Equal(t, "Kávéfőző", item.Description)

	// A later catalog price change must not touch the stored item.
	assert.NoError(t, f.db.Exec(`UPDATE products SET unit_price_cents = 99900 WHERE id = ?`, f.product.ID).Error)

	detail, err := f.svc.GetByID(ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	assert.NoError(t, err)
	assert.Len(t, detail.Items, 1)
	assert.Equal(t, int64(69900), detail.Items[0].UnitPriceCents)
}

func TestAddItemOverrides(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	price := int64(50000)
	rate := int64(27)
	item, err := f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID:      invoice.ID.String(),
		ProductID:      f.product.ID.String(),
		Quantity:       1,
		Description:    "Akciós ár",
		UnitPriceCents: &price,
		VATRate:        &rate,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), item.UnitPriceCents)
	assert.Equal(t, int64(27), item.VATRate)
	assert.Equal(t, "Akciós ár", item.Description)

	badPrice := int64(-1)
	_, err = f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID:      invoice.ID.String(),
		ProductID:      f.product.ID.String(),
		Quantity:       1,
		UnitPriceCents: &badPrice,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID: invoice.ID.String(),
		ProductID: f.product.ID.String(),
		Quantity:  -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestTotalsRecomputedFromItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	_, err = f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID: invoice.ID.String(),
		ProductID: f.product.ID.String(),
		Quantity:  2,
	})
	assert.NoError(t, err)

	totals, err := f.svc.Totals(ctx, domain.TotalsRequest{ID: invoice.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, int64(139800), totals.NetCents)
	assert.Equal(t, int64(6990), totals.TaxCents)
	assert.Equal(t, int64(146790), totals.GrossCents)
	assert.Len(t, totals.Breakdown, 1)
	assert.Equal(t, int64(5), totals.Breakdown[0].Rate)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	item, err := f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID: invoice.ID.String(),
		ProductID: f.product.ID.String(),
		Quantity:  1,
	})
	assert.NoError(t, err)

	qty := int64(3)
	updated, err := f.svc.UpdateItem(ctx, domain.UpdateItemRequest{
		InvoiceID: invoice.ID.String(),
		ItemID:    item.ID.String(),
		Quantity:  &qty,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), updated.Quantity)

	assert.NoError(t, f.svc.RemoveItem(ctx, domain.RemoveItemRequest{
		InvoiceID: invoice.ID.String(),
		ItemID:    item.ID.String(),
	}))

	totals, err := f.svc.Totals(ctx, domain.TotalsRequest{ID: invoice.ID.String()})
	assert.NoError(t, err)
	assert.Zero(t, totals.GrossCents)
	assert.Empty(t, totals.Breakdown)

	err = f.svc.RemoveItem(ctx, domain.RemoveItemRequest{
		InvoiceID: invoice.ID.String(),
		ItemID:    item.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestDeleteInvoiceCascadesItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	_, err = f.svc.AddItem(ctx, domain.AddItemRequest{
		InvoiceID: invoice.ID.String(),
		ProductID: f.product.ID.String(),
		Quantity:  1,
	})
	assert.NoError(t, err)

	assert.NoError(t, f.svc.Delete(ctx, domain.DeleteInvoiceRequest{ID: invoice.ID.String()}))

	_, err = f.svc.GetByID(ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var itemCount int64
	assert.NoError(t, f.db.Model(&domain.InvoiceItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestListInvoicesFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sale, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "purchase",
		Number:    "SUP-1",
	})
	assert.NoError(t, err)

	resp, err := f.svc.List(ctx, domain.ListInvoiceRequest{Direction: "sale"})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)
	assert.Equal(t, sale.ID, resp.Invoices[0].ID)

	resp, err = f.svc.List(ctx, domain.ListInvoiceRequest{Number: "SUP"})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)
	assert.Equal(t, "SUP-1", resp.Invoices[0].Number)

	resp, err = f.svc.List(ctx, domain.ListInvoiceRequest{PartnerID: f.partner.ID.String()})
	assert.NoError(t, err)
	assert.Len(t, resp.Invoices, 2)

	_, err = f.svc.List(ctx, domain.ListInvoiceRequest{Direction: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}

func TestUpdateInvoice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		PartnerID: f.partner.ID.String(),
		Direction: "sale",
	})
	assert.NoError(t, err)

	notes := "fizetve"
	number := "INV-CUSTOM-1"
	updated, err := f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:     invoice.ID.String(),
		Number: &number,
		Notes:  &notes,
	})
	assert.NoError(t, err)
	assert.Equal(t, "INV-CUSTOM-1", updated.Number)
	assert.Equal(t, "fizetve", updated.Notes)

	empty := " "
	_, err = f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:     invoice.ID.String(),
		Number: &empty,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)
}
