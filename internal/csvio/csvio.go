// Package csvio implements the §6 CSV import/export adapters: a pure I/O
// boundary between the core and flat files. No CSV library appears
// anywhere in the retrieved pack, so this is built on stdlib
// encoding/csv (see DESIGN.md for the justification).
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
)

// RowError reports a failure on one imported row. Row is 1-based; the
// header is row 0 (§6).
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

// ImportResult is the outcome of one CSV import: successfully parsed
// items plus any per-row errors, which do not abort the remaining rows.
type ImportResult struct {
	Items  []*cargo.Item
	Errors []RowError
}

// ImportItems parses item rows per §6's header contract. Missing optional
// fields default to Mass=0, Priority=50, Usage Limit=1, Preferred
// Zone="General".
func ImportItems(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read header: %w", cargo.ErrValidation)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}
	for _, required := range []string{"Item ID", "Name", "Width", "Depth", "Height"} {
		if _, ok := colIdx[required]; !ok {
			return ImportResult{}, fmt.Errorf("%w: missing column %q", cargo.ErrValidation, required)
		}
	}

	var result ImportResult
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}

		item, err := parseRow(record, colIdx)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err})
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func parseRow(record []string, colIdx map[string]int) (*cargo.Item, error) {
	get := func(col string) (string, bool) {
		i, ok := colIdx[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	item := &cargo.Item{MassKg: 0, Priority: 50, UsageLimit: 1, PreferredZone: "General"}

	id, _ := get("Item ID")
	if id == "" {
		return nil, fmt.Errorf("%w: Item ID required", cargo.ErrValidation)
	}
	item.ItemID = id

	name, _ := get("Name")
	item.Name = name

	w, err := parseIntField(get, "Width")
	if err != nil {
		return nil, err
	}
	d, err := parseIntField(get, "Depth")
	if err != nil {
		return nil, err
	}
	h, err := parseIntField(get, "Height")
	if err != nil {
		return nil, err
	}
	item.W, item.D, item.H = w, d, h

	if raw, ok := get("Mass"); ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: Mass: %v", cargo.ErrValidation, err)
		}
		item.MassKg = v
	}
	if raw, ok := get("Priority"); ok && raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: Priority: %v", cargo.ErrValidation, err)
		}
		item.Priority = v
	}
	if raw, ok := get("Usage Limit"); ok && raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: Usage Limit: %v", cargo.ErrValidation, err)
		}
		item.UsageLimit = v
	}
	item.RemainingUses = item.UsageLimit

	if raw, ok := get("Preferred Zone"); ok && raw != "" {
		item.PreferredZone = raw
	}

	if raw, ok := get("Expiry Date"); ok && raw != "" && !strings.EqualFold(raw, "none") {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			ts, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: Expiry Date: %v", cargo.ErrValidation, err)
		}
		item.ExpiryDate = &ts
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func parseIntField(get func(string) (string, bool), col string) (int, error) {
	raw, ok := get(col)
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: %s required", cargo.ErrValidation, col)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", cargo.ErrValidation, col, err)
	}
	return v, nil
}

var exportHeader = []string{"Item ID", "Container ID", "Start W", "Start D", "Start H", "End W", "End D", "End H"}

// ExportArrangement writes one row per stored item, per §6's export
// contract.
func ExportArrangement(w io.Writer, items []*cargo.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, item := range items {
		if item.Status != cargo.StatusStored || item.Position == nil {
			continue
		}
		p := item.Position
		row := []string{
			item.ItemID, item.ContainerID,
			strconv.Itoa(p.WS), strconv.Itoa(p.DS), strconv.Itoa(p.HS),
			strconv.Itoa(p.WE), strconv.Itoa(p.DE), strconv.Itoa(p.HE),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
