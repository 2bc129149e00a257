package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type jsonDecoder struct{}

func (jsonDecoder) CanDecode(opt DecodeOptions) bool {
	return extOf(opt.Name) == ".json" || contentTypeHas(opt, "json")
}

// Decode reads a JSON array of objects. Numbers are kept as json.Number so
// large counts survive untouched until normalization.
func (jsonDecoder) Decode(r io.Reader, _ DecodeOptions) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	items, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T", ErrMalformedRoot, root)
	}
	rows := make([]Row, 0, len(items))
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrMalformedRoot, i, it)
		}
		row := make(Row, len(obj))
		for k, v := range obj {
			row[strings.TrimSpace(k)] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
