package output

import (
	"encoding/json"
	"io"
)

// RenderJSON writes v as indented JSON. Lint reports rendered this way are
// the input format the compare command consumes. HTML escaping is off so
// operators in raw query text ($lt, >, &&) survive readably.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
