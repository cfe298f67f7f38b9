package engine

import (
	"fmt"

	"github.com/reposcan/reposcan/oid"
)

// ErrorKind classifies why an analysis run failed. Every kind is
// fatal: the Analyzer returns the first one observed and emits no
// partial Report.
type ErrorKind int

const (
	// KindOpenFailed means the repository path could not be opened.
	KindOpenFailed ErrorKind = iota
	// KindIterationFailed means object-database iteration aborted.
	KindIterationFailed
	// KindLookupFailed means a specific object could not be read.
	KindLookupFailed
	// KindInternalMissing means aggregation referenced an OID absent
	// from its category table: an earlier lookup/iteration bug or a
	// race, never expected in a correct run.
	KindInternalMissing
	// KindReferenceListFailed means reference enumeration aborted.
	KindReferenceListFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindOpenFailed:
		return "open failed"
	case KindIterationFailed:
		return "iteration failed"
	case KindLookupFailed:
		return "lookup failed"
	case KindInternalMissing:
		return "internal: object missing from category table"
	case KindReferenceListFailed:
		return "reference list failed"
	default:
		return "unknown"
	}
}

// AnalysisError wraps a fatal error with the kind of failure and,
// where applicable, the OID being processed when it occurred.
type AnalysisError struct {
	Kind ErrorKind
	OID  oid.OID
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.OID.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (object %s): %s", e.Kind, e.OID, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
