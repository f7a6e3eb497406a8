package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/repository"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParseOptions controls CSV parsing.
type ParseOptions struct {
	// Normalize collapses embedded newlines and whitespace runs in every cell.
	Normalize bool
}

// Parse reads a CSV table with a header row into records.
// Missing cells become "". A header lacking schema columns yields a *tac.SchemaError.
func Parse(r io.Reader, opts ParseOptions) ([]tac.Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty document", repository.ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", repository.ErrMalformed, err)
	}

	positions, err := tac.ResolveHeader(header)
	if err != nil {
		return nil, err
	}

	var records []tac.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", repository.ErrMalformed, line, err)
		}
		if blankRow(row) {
			continue
		}
		var rec tac.Record
		for col, i := range positions {
			if i < len(row) {
				rec.Set(col, clean(row[i], opts))
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func clean(v string, opts ParseOptions) string {
	v = norm.NFC.String(v)
	if opts.Normalize {
		v = strings.Join(strings.Fields(v), " ")
	}
	return v
}
