package output

import "sync/atomic"

// OutputMode is the process-wide default rendering mode consulted by code
// that does not carry its own *Writer (e.g. a deeply nested helper that
// wants to know whether to shape its error for a human or for a script).
type OutputMode string

const (
	OutputModeText OutputMode = "text"
	OutputModeJSON OutputMode = "json"
)

var outputMode atomic.Value

// SetOutputMode records the process-wide default: json when asJSON is true,
// text otherwise. The CLI sets it from its resolved output format
// (internal/cli.GetOutput() == "json").
func SetOutputMode(asJSON bool) {
	if asJSON {
		outputMode.Store(OutputModeJSON)
		return
	}
	outputMode.Store(OutputModeText)
}

// GetOutputMode returns the process-wide default, falling back to
// OutputModeText when SetOutputMode was never called.
func GetOutputMode() OutputMode {
	v, ok := outputMode.Load().(OutputMode)
	if !ok {
		return OutputModeText
	}
	return v
}

// IsJSON reports whether the process-wide default is OutputModeJSON.
func IsJSON() bool {
	return GetOutputMode() == OutputModeJSON
}
