package relkit

import (
	"strings"

	"github.com/pkg/errors"
)

// RowFailurePolicy decides what an Ingester does with a row which fails to
// decode or transform.
type RowFailurePolicy int

const (
	// Abort fails the whole run on the first bad row. Nothing is written.
	Abort RowFailurePolicy = iota
	// Skip logs the bad row, counts it, and carries on with the next one.
	Skip
)

func (p RowFailurePolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Skip:
		return "skip"
	}
	return "unknown"
}

// ParsePolicy parses "abort" or "skip".
func ParsePolicy(s string) (RowFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abort", "fail":
		return Abort, nil
	case "skip", "skip-row", "continue":
		return Skip, nil
	}
	return Abort, errors.Wrapf(ErrUnknownPolicy, "%q", s)
}
