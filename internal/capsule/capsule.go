// Package capsule renders the canonical JSON verification report.
package capsule

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encoding identifies the capsule format version.
const Encoding = "publichex-v1"

// Capsule is the JSON object emitted for every verification run. Errors is
// present only when the run did not fully pass; on a parse error
// NormalizedFrameHex is empty.
type Capsule struct {
	Encoding           string   `json:"encoding"`
	NormalizedFrameHex string   `json:"normalized_frame_hex"`
	Errors             []string `json:"errors,omitempty"`
}

// New builds a capsule. Pass nil reasons on a clean run so the errors field
// is omitted from the JSON.
func New(normalizedHex string, reasons []string) Capsule {
	return Capsule{
		Encoding:           Encoding,
		NormalizedFrameHex: normalizedHex,
		Errors:             reasons,
	}
}

// Write renders the capsule as a single JSON line on out and mirrors the
// error reasons line-by-line on diag, keeping the report and diagnostic
// channels separable (stdout vs stderr in the CLI).
func (c Capsule) Write(out, diag io.Writer) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling capsule: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return fmt.Errorf("writing capsule: %w", err)
	}
	for _, reason := range c.Errors {
		fmt.Fprintln(diag, reason)
	}
	return nil
}
