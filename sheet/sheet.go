// Package sheet reads the product/shade/SKU input sheet and writes the
// missing-SKU report.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
)

const (
	ColProduct      = "Product"
	ColShade        = "Shade"
	ColProductShade = "Product + Shade"
	ColSKU          = "SKU"
)

var ErrMissingColumn = errors.New("missing column")

// ReadRows reads a header-led CSV. Column order is free; the four known
// columns must all be present. Values are trimmed.
func ReadRows(r io.Reader) ([]types.SheetRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: sheet is empty", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, col := range []string{ColProduct, ColShade, ColProductShade, ColSKU} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	get := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]types.SheetRow, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet line %d: %w", line, err)
		}
		rows = append(rows, types.SheetRow{
			Product:      get(record, ColProduct),
			Shade:        get(record, ColShade),
			ProductShade: get(record, ColProductShade),
			SKU:          get(record, ColSKU),
		})
	}

	return rows, nil
}

// WriteMissing writes items under a SKU,Title header.
func WriteMissing(w io.Writer, items []types.FeedItem) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"SKU", "Title"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{item.SKU, item.Title}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
