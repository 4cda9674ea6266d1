package report

import (
	"encoding/json"
	"io"
)

// WriteJSON writes any result type as indented JSON. Raw secret values
// never appear: the finding type excludes them from serialization.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
