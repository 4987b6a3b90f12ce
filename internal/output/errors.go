package output

import (
	"encoding/json"
	"os"
)

// ErrorPayload is the JSON shape every JSON-mode error takes, whether it
// comes from Writer.Error or a bare OutputJSONError call before a Writer
// exists (e.g. a catalog load failure during startup).
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputJSONError writes an ErrorPayload to stdout with the given numeric
// code folded into Details, matching the shape Writer.Error produces for
// FormatJSON. Exists standalone so call sites that fail before constructing
// a Writer (argument parsing, config load) still emit the same JSON error
// shape scripts consuming cmdgate's output expect.
func OutputJSONError(err error, code int) error {
	payload := ErrorPayload{
		Error:   "error",
		Message: err.Error(),
		Details: map[string]any{"code": code},
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
