package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type PartnerKind string

const (
	KindCustomer PartnerKind = "customer"
	KindSupplier PartnerKind = "supplier"
)

func (k PartnerKind) Valid() bool {
	return k == KindCustomer || k == KindSupplier
}

type Partner struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Kind      PartnerKind       `gorm:"not null;index" json:"kind"`
	TaxID     string            `gorm:"column:tax_id" json:"tax_id,omitempty"`
	Address   string            `gorm:"column:address" json:"address,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
