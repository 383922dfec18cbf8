// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/faktura/internal/invoice/vat"
)

// InvoiceDirection distinguishes outgoing sales invoices from
// incoming purchase invoices.
type InvoiceDirection string

const (
	DirectionSale     InvoiceDirection = "sale"
	DirectionPurchase InvoiceDirection = "purchase"
)

func (d InvoiceDirection) Valid() bool {
	return d == DirectionSale || d == DirectionPurchase
}

// Invoice is an invoice header. Totals are never stored, they are
// recomputed from the items on every read.
type Invoice struct {
	ID        snowflake.ID     `gorm:"primaryKey" json:"id"`
	Number    string           `gorm:"not null;uniqueIndex" json:"number"`
	Seq       int64            `gorm:"not null" json:"seq"`
	PartnerID snowflake.ID     `gorm:"not null;index" json:"partner_id"`
	Direction InvoiceDirection `gorm:"not null" json:"direction"`
	Notes     string           `gorm:"type:text" json:"notes,omitempty"`
	IssuedAt  *time.Time       `json:"issued_at,omitempty"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a line on an invoice. Price and rate are copied from
// the product at add time so later catalog edits leave issued
// invoices untouched.
type InvoiceItem struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID      snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	ProductID      snowflake.ID `gorm:"not null;index" json:"product_id"`
	Description    string       `gorm:"type:text" json:"description,omitempty"`
	Quantity       int64        `gorm:"column:qty;not null" json:"quantity"`
	UnitPriceCents int64        `gorm:"not null" json:"unit_price_cents"`
	VATRate        int64        `gorm:"column:vat_rate;not null" json:"vat_rate"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// LineItem converts a stored item into the VAT engine's input shape.
func (i InvoiceItem) LineItem() vat.LineItem {
	return vat.LineItem{
		Quantity:       i.Quantity,
		UnitPriceCents: i.UnitPriceCents,
		VATRate:        i.VATRate,
	}
}
