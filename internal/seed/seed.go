package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	partnerdomain "github.com/smallbiznis/faktura/internal/partner/domain"
	productdomain "github.com/smallbiznis/faktura/internal/product/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type sampleProduct struct {
	SKU            string
	Name           string
	UnitPriceCents int64
	VATRate        int64
}

type samplePartner struct {
	Name    string
	Kind    partnerdomain.PartnerKind
	TaxID   string
	Address string
}

var sampleProducts = []sampleProduct{
	{SKU: "SKU001", Name: "Kávéfőző", UnitPriceCents: 69900, VATRate: 5},
	{SKU: "SKU002", Name: "Szakkönyv", UnitPriceCents: 39900, VATRate: 18},
	{SKU: "SKU003", Name: "Laptop", UnitPriceCents: 299900, VATRate: 27},
	{SKU: "SKU004", Name: "Irodai szék", UnitPriceCents: 34900, VATRate: 27},
	{SKU: "SKU005", Name: "Monitor", UnitPriceCents: 59900, VATRate: 27},
}

var samplePartners = []samplePartner{
	{Name: "Lakossági Vevő", Kind: partnerdomain.KindCustomer},
	{Name: "Teszt Kft.", Kind: partnerdomain.KindCustomer, TaxID: "12345678-1-42", Address: "1111 Budapest, Minta utca 1."},
	{Name: "Minta Beszállító Zrt.", Kind: partnerdomain.KindSupplier, TaxID: "87654321-2-13", Address: "4024 Debrecen, Fő tér 2."},
}

// EnsureSampleData inserts a small demo catalog and partner list when the
// database is empty. Re-running is a no-op.
func EnsureSampleData(conn *gorm.DB) error {
	node, err := snowflake.NewNode(9)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	var productCount int64
	if err := conn.Model(&productdomain.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount == 0 {
		for _, sample := range sampleProducts {
			product := productdomain.Product{
				ID:             node.Generate(),
				SKU:            sample.SKU,
				Name:           sample.Name,
				UnitPriceCents: sample.UnitPriceCents,
				VATRate:        sample.VATRate,
				Active:         true,
				Metadata:       datatypes.JSONMap{},
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := conn.Create(&product).Error; err != nil {
				return err
			}
		}
	}

	var partnerCount int64
	if err := conn.Model(&partnerdomain.Partner{}).Count(&partnerCount).Error; err != nil {
		return err
	}
	if partnerCount == 0 {
		for _, sample := range samplePartners {
			partner := partnerdomain.Partner{
				ID:        node.Generate(),
				Name:      sample.Name,
				Kind:      sample.Kind,
				TaxID:     sample.TaxID,
				Address:   sample.Address,
				Metadata:  datatypes.JSONMap{},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := conn.Create(&partner).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
