package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceDefinition is a purchasable shop service with its per-unit price.
type ServiceDefinition struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type LineItem struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is a priced checkout. It is built once and never changed afterwards.
type Order struct {
	ID               string          `json:"id"`
	CreatedAt        time.Time       `json:"createdAt"`
	CustomerName     string          `json:"customerName"`
	Contact          string          `json:"contact,omitempty"`
	UploadedFilename string          `json:"uploadedFilename"`
	InvoiceFilename  string          `json:"invoiceFilename"`
	Items            []LineItem      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
}

// StoredFile is a file written to one of the storage directories.
type StoredFile struct {
	Name string `json:"name"`
	Path string `json:"-"`
}
