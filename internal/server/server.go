package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/faktura/internal/config"
	"github.com/smallbiznis/faktura/internal/invoice"
	invoicedomain "github.com/smallbiznis/faktura/internal/invoice/domain"
	"github.com/smallbiznis/faktura/internal/partner"
	partnerdomain "github.com/smallbiznis/faktura/internal/partner/domain"
	"github.com/smallbiznis/faktura/internal/product"
	productdomain "github.com/smallbiznis/faktura/internal/product/domain"
	"github.com/smallbiznis/faktura/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	partner.Module,
	product.Module,
	invoice.Module,
	pdf.Module,
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	settings   *config.SettingsHolder
	log        *zap.Logger
	partnerSvc partnerdomain.Service
	productSvc productdomain.Service
	invoiceSvc invoicedomain.Service
	pdfSvc     pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Settings   *config.SettingsHolder
	Log        *zap.Logger
	PartnerSvc partnerdomain.Service
	ProductSvc productdomain.Service
	InvoiceSvc invoicedomain.Service
	PDFSvc     pdf.Provider
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		settings:   p.Settings,
		log:        p.Log.Named("http.server"),
		partnerSvc: p.PartnerSvc,
		productSvc: p.ProductSvc,
		invoiceSvc: p.InvoiceSvc,
		pdfSvc:     p.PDFSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Partners --------
	api.GET("/partners", s.ListPartners)
	api.POST("/partners", s.CreatePartner)
	api.GET("/partners/:id", s.GetPartnerByID)
	api.PATCH("/partners/:id", s.UpdatePartner)
	api.DELETE("/partners/:id", s.DeletePartner)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.POST("/products/:id/archive", s.ArchiveProduct)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.GET("/invoices/:id/totals", s.GetInvoiceTotals)
	api.GET("/invoices/:id/pdf", s.RenderInvoicePDF)

	// -------- Invoice items --------
	api.POST("/invoices/:id/items", s.AddInvoiceItem)
	api.PATCH("/invoices/:id/items/:item_id", s.UpdateInvoiceItem)
	api.DELETE("/invoices/:id/items/:item_id", s.RemoveInvoiceItem)
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
