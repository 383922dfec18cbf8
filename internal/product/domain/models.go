package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	SKU            string            `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Name           string            `gorm:"not null" json:"name"`
	UnitPriceCents int64             `gorm:"not null" json:"unit_price_cents"`
	VATRate        int64             `gorm:"column:vat_rate;not null;default:27" json:"vat_rate"`
	Active         bool              `gorm:"not null;default:true" json:"active"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
