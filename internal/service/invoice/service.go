package invoice

import (
	"bytes"
	"context"
	"embed"
	"encoding/hex"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"printshop/internal/domain"
)

const (
	MsgCustomerRequired = "Customer name is required."

	// DownloadPrefix is the route serving stored invoices.
	DownloadPrefix  = "/invoices/"
	timestampLayout = "2006-01-02 15:04:05"
)

// TaxRate is the flat tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.18")

//go:embed templates/invoice.html
var templatesFS embed.FS

var invoiceTmpl = template.Must(template.New("invoice.html").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).ParseFS(templatesFS, "templates/invoice.html"))

type invoiceStore interface {
	Create(name string, r io.Reader) (domain.StoredFile, error)
}

// orderWriter records finished orders; optional.
type orderWriter interface {
	Create(ctx context.Context, order domain.Order) error
}

type Service struct {
	store  invoiceStore
	ledger orderWriter
	logger logrus.FieldLogger
	now    func() time.Time
	newID  func() (string, error)
}

// New builds the invoice generator. ledger may be nil.
func New(store invoiceStore, ledger orderWriter, logger logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
		newID:  NewOrderID,
	}
}

type GenerateInput struct {
	CustomerName     string
	Contact          string
	UploadedFilename string
	Items            []domain.LineItem
	Subtotal         decimal.Decimal
}

// Invoice is a rendered order. HTML is the exact document written to disk.
type Invoice struct {
	Order       domain.Order
	Filename    string
	DownloadURL string
	HTML        []byte
}

// Generate totals the order, renders it once and persists the rendering.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*Invoice, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, domain.NewValidationError(MsgCustomerRequired)
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	tax, total := Totals(in.Subtotal)
	items := in.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	filename := Filename(id)
	order := domain.Order{
		ID:               id,
		CreatedAt:        s.now(),
		CustomerName:     name,
		Contact:          strings.TrimSpace(in.Contact),
		UploadedFilename: in.UploadedFilename,
		InvoiceFilename:  filename,
		Items:            items,
		Subtotal:         in.Subtotal,
		Tax:              tax,
		Total:            total,
	}

	inv := &Invoice{
		Order:       order,
		Filename:    filename,
		DownloadURL: DownloadPrefix + filename,
	}
	html, err := render(inv)
	if err != nil {
		return nil, err
	}
	inv.HTML = html

	if _, err := s.store.Create(filename, bytes.NewReader(html)); err != nil {
		return nil, errors.Wrap(err, "persist invoice")
	}

	if s.ledger != nil {
		if err := s.ledger.Create(ctx, order); err != nil {
			s.logger.WithError(err).WithField("order_id", id).Warn("record order in ledger")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"items":    len(items),
		"total":    total.StringFixed(2),
	}).Info("invoice generated")
	return inv, nil
}

// Totals derives tax and total from the subtotal, both rounded to cents.
func Totals(subtotal decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(TaxRate).Round(2)
	total = subtotal.Add(tax).Round(2)
	return tax, total
}

func Filename(orderID string) string {
	return "invoice-" + orderID + ".html"
}

// NewOrderID returns 12 upper-case hex characters of fresh randomness.
func NewOrderID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generate order id")
	}
	return strings.ToUpper(hex.EncodeToString(id[:6])), nil
}

type view struct {
	Order       domain.Order
	Timestamp   string
	TaxPercent  string
	DownloadURL string
}

func render(inv *Invoice) ([]byte, error) {
	var buf bytes.Buffer
	err := invoiceTmpl.Execute(&buf, view{
		Order:       inv.Order,
		Timestamp:   inv.Order.CreatedAt.Format(timestampLayout),
		TaxPercent:  TaxRate.Shift(2).String(),
		DownloadURL: inv.DownloadURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "render invoice")
	}
	return buf.Bytes(), nil
}
