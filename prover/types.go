package prover

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/geodiscover/candidate"
)

// ErrInconclusive marks relations that ran out of time or budget.
var ErrInconclusive = errors.New("prover: inconclusive")

// Verdict is the outcome of Verify.
type Verdict uint8

const (
	// Inconclusive means the symbolic check did not finish.
	Inconclusive Verdict = iota
	// Holds means the relation is a theorem of the construction.
	Holds
	// DoesNotHold means the relation is false in general.
	DoesNotHold
	// Degenerate means a participating point has no valid position.
	Degenerate
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Holds:
		return "holds"
	case DoesNotHold:
		return "does-not-hold"
	case Degenerate:
		return "degenerate"
	}

	return "inconclusive"
}

// Method names the gate that produced a verdict.
type Method uint8

const (
	MethodNone Method = iota
	// Definition: the relation holds by construction.
	Definition
	// Numeric: rejected by the floating-point pre-filter.
	Numeric
	// Symbolic: decided on the exact solved forms.
	Symbolic
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Definition:
		return "definition"
	case Numeric:
		return "numeric"
	case Symbolic:
		return "symbolic"
	}

	return "none"
}

// VerifiedRelation is a candidate together with its verdict and the graph
// state it was decided against.
type VerifiedRelation struct {
	Candidate candidate.Candidate
	Verdict   Verdict
	Method    Method
	GraphID   string
	Version   uint64
	// Stamp is the newest stamp among the participating points.
	Stamp uint64
	// Pending lists the unresolved branch objects the relation depends on.
	Pending []string
	// Cached reports a verdict served from the cache or the archive.
	Cached bool
	// Err explains Inconclusive and Degenerate verdicts.
	Err error
}

// Recorder receives prover measurements. *metrics.Collector implements it.
type Recorder interface {
	Verdict(kind, verdict, method string)
	ProofLatency(d time.Duration)
	CacheHit()
	CacheMiss()
	ArchiveHit()
}

// Archive persists symbolic verdicts across processes. Keys are stable
// across graphs with the same exact forms.
type Archive interface {
	Load(ctx context.Context, key string) (Verdict, bool, error)
	Save(ctx context.Context, key string, v Verdict) error
}

type nopRecorder struct{}

func (nopRecorder) Verdict(string, string, string) {}
func (nopRecorder) ProofLatency(time.Duration)     {}
func (nopRecorder) CacheHit()                      {}
func (nopRecorder) CacheMiss()                     {}
func (nopRecorder) ArchiveHit()                    {}
