package ledger

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// CSVLedger implements CalculationLedger over a single CSV file.
type CSVLedger struct {
	path string
}

// NewCSV creates a calculation ledger backed by the file at path. The file
// is created with a canonical header row on first append.
func NewCSV(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// Append writes one calculation row. The file handle is opened and closed
// per call; a header row is written first if the file does not exist yet.
func (l *CSVLedger) Append(ctx context.Context, row CalculationRow) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "csv ledger: append")
	}

	writeHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "csv ledger: open %s", l.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(CanonicalHeader); err != nil {
			return eris.Wrap(err, "csv ledger: write header")
		}
	}
	if err := w.Write(row.record()); err != nil {
		return eris.Wrap(err, "csv ledger: write row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv ledger: flush")
	}
	return nil
}

// Snapshot reads the whole file and returns every row with headers
// normalized to the canonical set. A missing file is an empty ledger.
func (l *CSVLedger) Snapshot(ctx context.Context) ([]CalculationRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "csv ledger: snapshot")
	}

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "csv ledger: open %s", l.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv ledger: read header")
	}

	// Map canonical column name -> position in this file.
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[CanonicalColumn(name)] = i
	}

	var rows []CalculationRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv ledger: read row")
		}
		rows = append(rows, rowFromRecord(rec, index))
	}
	return rows, nil
}

func rowFromRecord(rec []string, index map[string]int) CalculationRow {
	field := func(canonical string) string {
		i, ok := index[canonical]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return CalculationRow{
		Date:            field("Date"),
		Artist:          field("Artist"),
		Market:          field("Market"),
		ProductType:     field("Type"),
		Materials:       field("Materials"),
		Length:          field("Length (cm)"),
		Width:           field("Width (cm)"),
		Height:          field("Height (cm)"),
		Weight:          field("Weight (kg)"),
		MaterialCost:    field("Material Cost (€)"),
		ShippingCost:    field("Shipping Cost (€)"),
		AdvertisingCost: field("Advertising Cost (€)"),
		CreationTime:    field("Creation Time (h)"),
		FinalPrice:      field("Final Price (€)"),
		MarketDemand:    field("Market Demand (1-10)"),
		AdvisoryPrice:   field("AI Price Recommendation (€)"),
	}
}
