package lifecycle

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Export errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrBadHeader     = errors.New("unexpected CSV header")
)

// Format is an export encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts csv (or ""), json and yaml, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

var (
	ledgerHeader = []string{"File Path", "Comment", "Introduced", "Removed"}
	errorsHeader = []string{"File Path", "Commit Hash", "Error Message"}
)

// WriteLedgerCSV writes rows with RFC 3339 timestamps; a missing timestamp
// is an empty cell.
func WriteLedgerCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	records := make([][]string, 0, len(rows)+1)
	records = append(records, ledgerHeader)

	for _, row := range rows {
		records = append(records, []string{row.Path, row.Comment, formatTime(row.Introduced), formatTime(row.Removed)})
	}

	err := cw.WriteAll(records)
	if err != nil {
		return fmt.Errorf("write ledger csv: %w", err)
	}

	return nil
}

// WriteErrorsCSV writes the error records.
func WriteErrorsCSV(w io.Writer, records []ErrorRecord) error {
	cw := csv.NewWriter(w)

	lines := make([][]string, 0, len(records)+1)
	lines = append(lines, errorsHeader)

	for _, rec := range records {
		lines = append(lines, []string{rec.Path, rec.Commit, rec.Message})
	}

	err := cw.WriteAll(lines)
	if err != nil {
		return fmt.Errorf("write errors csv: %w", err)
	}

	return nil
}

// ReadLedgerCSV parses a file produced by WriteLedgerCSV.
func ReadLedgerCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ledgerHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read ledger csv: %w", err)
	}

	if strings.Join(header, ",") != strings.Join(ledgerHeader, ",") {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	var rows []Row

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read ledger csv: %w", err)
		}

		introduced, err := parseTime(rec[2])
		if err != nil {
			return nil, err
		}

		removed, err := parseTime(rec[3])
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{Path: rec[0], Comment: rec[1], Introduced: introduced, Removed: removed})
	}
}

// WriteLedger encodes rows in the given format.
func WriteLedger(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatCSV, "":
		return WriteLedgerCSV(w, rows)
	case FormatJSON:
		return encodeJSON(w, rows)
	case FormatYAML:
		return encodeYAML(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteErrors encodes error records in the given format.
func WriteErrors(w io.Writer, format Format, records []ErrorRecord) error {
	switch format {
	case FormatCSV, "":
		return WriteErrorsCSV(w, records)
	case FormatJSON:
		return encodeJSON(w, records)
	case FormatYAML:
		return encodeYAML(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Output names the artifacts of a run.
type Output struct {
	CommentsPath string
	ErrorsPath   string
	Format       Format
}

// FlushFiles writes both ledgers to disk. It is meant to be called once, at
// the end of a run.
func FlushFiles(out Output, ledger *Ledger, errs *ErrorLedger) error {
	err := writeFile(out.CommentsPath, func(w io.Writer) error {
		return WriteLedger(w, out.Format, ledger.Rows())
	})
	if err != nil {
		return err
	}

	return writeFile(out.ErrorsPath, func(w io.Writer) error {
		return WriteErrors(w, out.Format, errs.Records())
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}

func parseTime(cell string) (*time.Time, error) {
	if cell == "" {
		return nil, nil //nolint:nilnil // an empty cell is a missing timestamp
	}

	t, err := time.Parse(time.RFC3339, cell)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", cell, err)
	}

	return &t, nil
}
