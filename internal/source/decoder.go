package source

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Row is one raw record: trimmed column name to cell value.
type Row = map[string]any

// DecodeOptions describes the payload being decoded.
type DecodeOptions struct {
	// Name is the file path or URL path; its extension selects the decoder.
	Name        string
	ContentType string
	// Sheet selects the workbook sheet for spreadsheet sources. Empty means the first.
	Sheet string
}

// Decoder turns a tabular payload into rows.
type Decoder interface {
	CanDecode(opt DecodeOptions) bool
	Decode(r io.Reader, opt DecodeOptions) ([]Row, error)
}

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

func init() {
	Register(jsonDecoder{})
	Register(csvDecoder{})
	Register(xlsxDecoder{})
}

// decoderFor returns the first registered decoder accepting opt.
func decoderFor(opt DecodeOptions) (Decoder, error) {
	for _, d := range registry {
		if d.CanDecode(opt) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, opt.Name)
}

func extOf(name string) string {
	return strings.ToLower(path.Ext(name))
}

func contentTypeHas(opt DecodeOptions, subs ...string) bool {
	ct := strings.ToLower(opt.ContentType)
	for _, s := range subs {
		if strings.Contains(ct, s) {
			return true
		}
	}
	return false
}

// header trims column names and drops a leading byte order mark.
func header(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// zipRows pairs each record with the header. Short records leave columns absent.
func zipRows(head []string, records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(head))
		for i, name := range head {
			if name == "" || i >= len(rec) {
				continue
			}
			row[name] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}
