package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/faktura/internal/partner/domain"
	"github.com/smallbiznis/faktura/internal/partner/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Partner{}))

	// Delete checks this table for referencing rows.
	assert.NoError(t, db.Exec(
		`CREATE TABLE invoices (id INTEGER PRIMARY KEY, partner_id INTEGER NOT NULL REFERENCES partners (id))`,
	).Error)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestCreatePartner(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	partner, err := svc.Create(ctx, domain.CreatePartnerRequest{
		Name:    "Teszt Kft.",
		Kind:    "customer",
		TaxID:   "12345678-1-42",
		Address: "Budapest, Fő utca 1.",
	})
	assert.NoError(t, err)
	assert.NotZero(t, partner.ID)
	assert.Equal(t, domain.KindCustomer, partner.Kind)
	assert.Equal(t, "12345678-1-42", partner.TaxID)

	got, err := svc.GetByID(ctx, domain.GetPartnerRequest{ID: partner.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, partner.Name, got.Name)
}

func TestCreatePartnerValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePartnerRequest{Name: "  ", Kind: "customer"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreatePartnerRequest{Name: "Valid", Kind: "vendor"})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestListPartnersFilterByKind(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePartnerRequest{Name: "Customer A", Kind: "customer"})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreatePartnerRequest{Name: "Supplier B", Kind: "supplier"})
	assert.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListPartnerRequest{Kind: "supplier"})
	assert.NoError(t, err)
	assert.Len(t, resp.Partners, 1)
	assert.Equal(t, "Supplier B", resp.Partners[0].Name)

	resp, err = svc.List(ctx, domain.ListPartnerRequest{})
	assert.NoError(t, err)
	assert.Len(t, resp.Partners, 2)

	_, err = svc.List(ctx, domain.ListPartnerRequest{Kind: "other"})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestUpdatePartner(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	partner, err := svc.Create(ctx, domain.CreatePartnerRequest{Name: "Old Name", Kind: "customer"})
	assert.NoError(t, err)

	name := "New Name"
	taxID := "87654321-2-13"
	updated, err := svc.Update(ctx, domain.UpdatePartnerRequest{
		ID:    partner.ID.String(),
		Name:  &name,
		TaxID: &taxID,
	})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "87654321-2-13", updated.TaxID)

	got, err := svc.GetByID(ctx, domain.GetPartnerRequest{ID: partner.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
}

func TestDeletePartner(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	partner, err := svc.Create(ctx, domain.CreatePartnerRequest{Name: "Ephemeral", Kind: "supplier"})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, domain.DeletePartnerRequest{ID: partner.ID.String()}))

	_, err = svc.GetByID(ctx, domain.GetPartnerRequest{ID: partner.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, domain.DeletePartnerRequest{ID: partner.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePartnerInUse(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	partner, err := svc.Create(ctx, domain.CreatePartnerRequest{Name: "Referenced", Kind: "customer"})
	assert.NoError(t, err)

	assert.NoError(t, db.Exec(`INSERT INTO invoices (id, partner_id) VALUES (1, ?)`, partner.ID).Error)

	err = svc.Delete(ctx, domain.DeletePartnerRequest{ID: partner.ID.String()})
	assert.ErrorIs(t, err, domain.ErrPartnerInUse)

	// Deleting the referencing invoice unblocks the partner delete.
	assert.NoError(t, db.Exec(`DELETE FROM invoices WHERE partner_id = ?`, partner.ID).Error)
	assert.NoError(t, svc.Delete(ctx, domain.DeletePartnerRequest{ID: partner.ID.String()}))
}
