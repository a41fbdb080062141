// journal/csv.go
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Header is the fixed column layout of the store file. Fornitore is the
// provider column.
var Header = []string{"Symbol", "Action", "Gain", "StopLoss", "Date", "Time", "Fornitore"}

const providerColumn = "Fornitore"

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range records {
		err := cw.Write([]string{
			t.Symbol,
			t.Action,
			t.Gain.String(),
			t.StopLoss,
			t.Date.Value,
			t.Time.Value,
			t.Provider,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads records by header name. Stores written before the provider
// column existed are accepted; every other column is required.
func ReadCSV(r io.Reader) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(head))
	for i, name := range head {
		idx[name] = i
	}
	for _, name := range Header {
		if name == providerColumn {
			continue
		}
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	col := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []TradeRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, TradeRecord{
			Symbol:   col(row, "Symbol"),
			Action:   col(row, "Action"),
			Gain:     ParseGain(col(row, "Gain")),
			StopLoss: col(row, "StopLoss"),
			Date:     DateField(col(row, "Date")),
			Time:     TimeField(col(row, "Time")),
			Provider: col(row, providerColumn),
		})
	}
	return out, nil
}
