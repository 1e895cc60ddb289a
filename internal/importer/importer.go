package importer

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"printshop/internal/catalog"
	"printshop/internal/domain"
)

// CSVImporter reads a price list with key,label,price columns.
type CSVImporter struct {
	reader *csv.Reader
}

func NewCSVImporter(r io.Reader) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr}
}

// Run parses every row into a service definition, keeping file order.
// Blank rows are skipped.
func (i *CSVImporter) Run() ([]domain.ServiceDefinition, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read headers")
	}
	index := headerIndex(headers)
	for _, col := range []string{"key", "label", "price"} {
		if _, ok := index[col]; !ok {
			return nil, errors.Errorf("missing %q column", col)
		}
	}

	var defs []domain.ServiceDefinition
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "read row %d", line)
		}

		def, ok, err := parseRow(record, index)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		if !ok {
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadCatalog builds a catalog from the CSV file at path.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog csv")
	}
	defer f.Close()

	defs, err := NewCSVImporter(f).Run()
	if err != nil {
		return nil, errors.Wrapf(err, "import %s", path)
	}
	return catalog.New(defs)
}

// WriteCSV writes services in the format Run reads back.
func WriteCSV(w io.Writer, services []domain.ServiceDefinition) error {
	csvw := csv.NewWriter(w)
	if err := csvw.Write([]string{"key", "label", "price"}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, svc := range services {
		if err := csvw.Write([]string{svc.Key, svc.Label, svc.UnitPrice.StringFixed(2)}); err != nil {
			return errors.Wrapf(err, "write %s", svc.Key)
		}
	}
	csvw.Flush()
	return csvw.Error()
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.ServiceDefinition, bool, error) {
	key := pick(record, index, "key")
	label := pick(record, index, "label")
	priceStr := pick(record, index, "price")

	if key == "" && label == "" && priceStr == "" {
		return domain.ServiceDefinition{}, false, nil
	}
	if key == "" || label == "" || priceStr == "" {
		return domain.ServiceDefinition{}, false, errors.Errorf("missing required fields for key %q", key)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return domain.ServiceDefinition{}, false, errors.Wrapf(err, "invalid price for key %q", key)
	}
	return domain.ServiceDefinition{Key: key, Label: label, UnitPrice: price}, true, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
