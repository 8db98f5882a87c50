// Package verify classifies frame verification runs into the three outcome
// classes shared by every pipeline: PASS, FAIL (parsed but failed integrity
// or invariants), ERROR (could not be interpreted at all).
package verify

import (
	"publichex/internal/frame"
)

// Status is the outcome class of a single verification run.
type Status int

const (
	Pass Status = iota
	Fail
	Error
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "error"
	}
}

// ExitCode maps a status to the process exit contract: 0 PASS, 2 FAIL,
// 1 ERROR. The FAIL/ERROR split is load-bearing: structural failures exit 1,
// integrity failures on a structurally valid frame exit 2.
func (s Status) ExitCode() int {
	switch s {
	case Pass:
		return 0
	case Fail:
		return 2
	default:
		return 1
	}
}

// Outcome is the result of one verification run. Reasons preserve encounter
// order and are never deduplicated.
type Outcome struct {
	Status  Status
	Reasons []string
}

// Verify runs the full pipeline over a wire frame: decode, integrity
// validation, then optionally the strict invariant suite. Strict checks run
// only after basic validation passes, so strict mode can never promote a
// failing frame.
func Verify(wire []byte, strict bool) Outcome {
	f, err := frame.Decode(wire)
	if err != nil {
		return Outcome{Status: Error, Reasons: []string{err.Error()}}
	}
	if reasons := frame.Validate(f); len(reasons) > 0 {
		return Outcome{Status: Fail, Reasons: reasons}
	}
	if strict {
		if reasons := StrictCheck(f, wire); len(reasons) > 0 {
			return Outcome{Status: Fail, Reasons: reasons}
		}
	}
	return Outcome{Status: Pass}
}
