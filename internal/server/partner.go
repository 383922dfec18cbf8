package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	partnerdomain "github.com/smallbiznis/faktura/internal/partner/domain"
	"github.com/smallbiznis/faktura/pkg/db/pagination"
)

type createPartnerRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

func (s *Server) CreatePartner(c *gin.Context) {
	var req createPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.partnerSvc.Create(c.Request.Context(), partnerdomain.CreatePartnerRequest{
		Name:    strings.TrimSpace(req.Name),
		Kind:    strings.TrimSpace(req.Kind),
		TaxID:   strings.TrimSpace(req.TaxID),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPartners(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Kind string `form:"kind"`
		Name string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.partnerSvc.List(c.Request.Context(), partnerdomain.ListPartnerRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Kind:      strings.TrimSpace(query.Kind),
		Name:      strings.TrimSpace(query.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPartnerByID(c *gin.Context) {
	resp, err := s.partnerSvc.GetByID(c.Request.Context(), partnerdomain.GetPartnerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePartner(c *gin.Context) {
	var req partnerdomain.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.partnerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePartner(c *gin.Context) {
	err := s.partnerSvc.Delete(c.Request.Context(), partnerdomain.DeletePartnerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func isPartnerValidationError(err error) bool {
	switch err {
	case partnerdomain.ErrInvalidName,
		partnerdomain.ErrInvalidKind,
		partnerdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
