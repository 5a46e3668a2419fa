// Package output serializes extraction results.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/pretty"
)

var prettyOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// ToJSON serializes v without HTML escaping. pretty indents the result by two
// spaces and keeps key order.
func ToJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")
	if !indent {
		return data, nil
	}
	return bytes.TrimRight(pretty.PrettyOptions(data, prettyOptions), "\n"), nil
}
