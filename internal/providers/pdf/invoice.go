package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type InvoiceData struct {
	CompanyName    string
	CompanyAddress string
	CompanyTaxID   string

	InvoiceNumber string
	Direction     string
	IssueDate     string
	Notes         string

	PartnerName    string
	PartnerAddress string
	PartnerTaxID   string

	Items []InvoiceItem

	Breakdown []BreakdownLine

	Net   string
	Tax   string
	Gross string
}

type InvoiceItem struct {
	Description string
	Qty         int64
	UnitPrice   string
	Net         string
	VATRate     string
}

// BreakdownLine is one row of the per-rate VAT summary table.
type BreakdownLine struct {
	Rate string
	Net  string
	Tax  string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(12, "Invoice "+invoice.InvoiceNumber, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Date of issue: "+invoice.IssueDate, props.Text{Top: 0}),
			text.New("Direction: "+invoice.Direction, props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(35,
		col.New(6).Add(
			text.New(invoice.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New(invoice.CompanyAddress, props.Text{Top: 5}),
			text.New("Tax ID: "+invoice.CompanyTaxID, props.Text{Top: 9}),
		),
		col.New(6).Add(
			text.New("Partner", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.PartnerName, props.Text{Top: 5}),
			text.New(invoice.PartnerAddress, props.Text{Top: 9}),
			text.New("Tax ID: "+invoice.PartnerTaxID, props.Text{Top: 13}),
		),
	)

	// Item table
	m.AddRow(10,
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "VAT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Net", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(5, item.Description, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.VATRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Net, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// VAT breakdown per rate
	m.AddRow(12,
		text.NewCol(12, "VAT summary", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
	)
	m.AddRow(8,
		text.NewCol(4, "Rate", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Net", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(4, "Tax", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, line := range invoice.Breakdown {
		m.AddRow(8,
			text.NewCol(4, line.Rate, props.Text{Size: 9}),
			text.NewCol(4, line.Net, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, line.Tax, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Net", props.Text{Size: 9}),
		text.NewCol(2, invoice.Net, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Tax", props.Text{Size: 9}),
		text.NewCol(2, invoice.Tax, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Gross", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, invoice.Gross, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if invoice.Notes != "" {
		m.AddRow(14,
			text.NewCol(12, invoice.Notes, props.Text{Size: 9, Top: 4}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
