package httpserver

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"printshop/internal/catalog"
	"printshop/internal/domain"
	"printshop/internal/service/invoice"
	ordersvc "printshop/internal/service/order"
)

const sessionName = "printshop_session"

//go:embed templates/*.html
var templatesFS embed.FS

type fileDir interface {
	Stat(name string) (domain.StoredFile, error)
	Root() string
}

type uploadService interface {
	Accept(r io.Reader, originalFilename string) (domain.StoredFile, error)
}

type invoiceService interface {
	Generate(ctx context.Context, in invoice.GenerateInput) (*invoice.Invoice, error)
}

type printService interface {
	RequestPrint(filename string) error
}

type orderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, limit, offset int) (ordersvc.Page, error)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers need. OrderSvc and Ledger are nil
// when no order ledger is configured.
type Deps struct {
	Catalog    *catalog.Catalog
	Uploads    fileDir
	Invoices   fileDir
	UploadSvc  uploadService
	InvoiceSvc invoiceService
	PrintSvc   printService
	OrderSvc   orderService
	Ledger     Pinger
}

type Options struct {
	SecretKey      string
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// buildRouter wires routes for the storefront and the JSON API.
func buildRouter(logger *logrus.Entry, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Uploads == nil || deps.Invoices == nil ||
		deps.UploadSvc == nil || deps.InvoiceSvc == nil || deps.PrintSvc == nil {
		return nil, errors.New("httpserver: missing required dependency")
	}
	if opts.SecretKey == "" {
		return nil, errors.New("httpserver: secret key required")
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(opts.SecretKey))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	router.Use(sessions.Sessions(sessionName, store))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler([]string{deps.Uploads.Root(), deps.Invoices.Root()}, deps.Ledger))

	sf := &storefront{
		logger:       logger,
		catalog:      deps.Catalog,
		uploads:      deps.UploadSvc,
		invoices:     deps.InvoiceSvc,
		maxBodyBytes: opts.MaxBodyBytes,
	}
	router.GET("/", sf.index)
	router.POST("/checkout", limitBody(opts.MaxBodyBytes), sf.checkout)
	router.GET("/invoices/:filename", attachmentHandler(deps.Invoices))
	router.GET("/uploads/:filename", attachmentHandler(deps.Uploads))

	api := router.Group("/api")
	if len(opts.AllowedOrigins) > 0 {
		corsMW, err := corsMiddleware(opts.AllowedOrigins)
		if err != nil {
			return nil, err
		}
		api.Use(corsMW)
	}
	api.Use(gin.CustomRecoveryWithWriter(io.Discard, apiRecovery(logger)))
	api.POST("/print-upload/:filename", printUploadHandler(deps.PrintSvc, logger))
	api.GET("/orders", listOrdersHandler(deps.OrderSvc))
	api.GET("/orders/:orderID", getOrderHandler(deps.OrderSvc))

	return router, nil
}

func corsMiddleware(origins []string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "cors config")
	}
	return cors.New(cfg), nil
}

// limitBody caps the request body; larger declared bodies are refused up front.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
