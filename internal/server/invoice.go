package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/faktura/internal/invoice/domain"
	"github.com/smallbiznis/faktura/internal/invoice/format"
	partnerdomain "github.com/smallbiznis/faktura/internal/partner/domain"
	"github.com/smallbiznis/faktura/internal/providers/pdf"
	"github.com/smallbiznis/faktura/pkg/db/pagination"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Direction   string `form:"direction"`
		PartnerID   string `form:"partner_id"`
		Number      string `form:"number"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}

	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
		Direction:   strings.TrimSpace(query.Direction),
		PartnerID:   strings.TrimSpace(query.PartnerID),
		Number:      strings.TrimSpace(query.Number),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.invoiceSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	err := s.invoiceSvc.Delete(c.Request.Context(), invoicedomain.DeleteInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetInvoiceTotals(c *gin.Context) {
	resp, err := s.invoiceSvc.Totals(c.Request.Context(), invoicedomain.TotalsRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddInvoiceItem(c *gin.Context) {
	var req invoicedomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.InvoiceID = strings.TrimSpace(c.Param("id"))

	resp, err := s.invoiceSvc.AddItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoiceItem(c *gin.Context) {
	var req invoicedomain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.InvoiceID = strings.TrimSpace(c.Param("id"))
	req.ItemID = strings.TrimSpace(c.Param("item_id"))

	resp, err := s.invoiceSvc.UpdateItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveInvoiceItem(c *gin.Context) {
	err := s.invoiceSvc.RemoveItem(c.Request.Context(), invoicedomain.RemoveItemRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		ItemID:    strings.TrimSpace(c.Param("item_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	ctx := c.Request.Context()

	detail, err := s.invoiceSvc.GetByID(ctx, invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	partner, err := s.partnerSvc.GetByID(ctx, partnerdomain.GetPartnerRequest{
		ID: detail.Invoice.PartnerID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	company := s.settings.Get()
	currency := company.Currency

	data := pdf.InvoiceData{
		CompanyName:    company.Name,
		CompanyAddress: company.Address,
		CompanyTaxID:   company.TaxID,
		InvoiceNumber:  detail.Invoice.Number,
		Direction:      string(detail.Invoice.Direction),
		Notes:          detail.Invoice.Notes,
		PartnerName:    partner.Name,
		PartnerAddress: partner.Address,
		PartnerTaxID:   partner.TaxID,
		Net:            format.FormatMoney(detail.Totals.NetCents, currency),
		Tax:            format.FormatMoney(detail.Totals.TaxCents, currency),
		Gross:          format.FormatMoney(detail.Totals.GrossCents, currency),
	}
	if detail.Invoice.IssuedAt != nil {
		data.IssueDate = detail.Invoice.IssuedAt.Format("2006-01-02")
	}
	for _, item := range detail.Items {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: item.Description,
			Qty:         item.Quantity,
			UnitPrice:   format.FormatMinorUnits(item.UnitPriceCents),
			Net:         format.FormatMinorUnits(item.Quantity * item.UnitPriceCents),
			VATRate:     fmt.Sprintf("%d%%", item.VATRate),
		})
	}
	for _, line := range detail.Totals.Breakdown {
		data.Breakdown = append(data.Breakdown, pdf.BreakdownLine{
			Rate: fmt.Sprintf("%d%%", line.Rate),
			Net:  format.FormatMinorUnits(line.NetCents),
			Tax:  format.FormatMinorUnits(line.TaxCents),
		})
	}

	doc, err := s.pdfSvc.GenerateInvoice(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", detail.Invoice.Number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", body)
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidDirection,
		invoicedomain.ErrInvalidPartner,
		invoicedomain.ErrInvalidProduct,
		invoicedomain.ErrInvalidQuantity,
		invoicedomain.ErrInvalidPrice,
		invoicedomain.ErrInvalidVATRate,
		invoicedomain.ErrInvalidNumber:
		return true
	default:
		return false
	}
}
