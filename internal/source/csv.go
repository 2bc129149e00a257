package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

type csvDecoder struct{}

func (csvDecoder) CanDecode(opt DecodeOptions) bool {
	switch extOf(opt.Name) {
	case ".csv", ".tsv":
		return true
	}
	return contentTypeHas(opt, "text/csv", "tab-separated-values")
}

func (csvDecoder) Decode(r io.Reader, opt DecodeOptions) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if extOf(opt.Name) == ".tsv" || contentTypeHas(opt, "tab-separated-values") {
		cr.Comma = '\t'
	}
	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return zipRows(header(head), records), nil
}
