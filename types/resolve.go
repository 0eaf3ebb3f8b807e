package types

import (
	"github.com/deepnoodle-ai/xsltc/errors"
)

// TiePolicy decides what happens when several overload candidates share the
// least distance.
type TiePolicy int

const (
	// FirstDeclared selects the earliest candidate among those tied.
	FirstDeclared TiePolicy = iota
	// StrictTies rejects the call with an *errors.AmbiguousOverloadError.
	StrictTies
)

func (p TiePolicy) String() string {
	switch p {
	case FirstDeclared:
		return "first-declared"
	case StrictTies:
		return "strict"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of overload resolution.
type Resolution struct {
	// Index of the selected candidate.
	Index int
	// Method is the selected candidate.
	Method *MethodType
	// Distance is the total argument distance of the selected candidate.
	Distance int
	// Ties holds the indexes of every candidate at the selected distance,
	// including the selected one, in declaration order.
	Ties []int
}

// Ambiguous returns true if more than one candidate had the least distance.
func (r Resolution) Ambiguous() bool {
	return len(r.Ties) > 1
}

// Resolve selects the candidate whose argument types are closest to those
// of call. Result types do not take part. Candidates with an Infinite
// distance are never selected; if all are Infinite an E4004 compile error
// is returned.
func Resolve(call *MethodType, candidates []*MethodType, policy TiePolicy) (Resolution, error) {
	best := Resolution{Index: -1, Distance: Infinite}
	for i, candidate := range candidates {
		if candidate == nil {
			continue
		}
		d := DistanceTo(call, candidate)
		switch {
		case d == Infinite:
			continue
		case d < best.Distance:
			best = Resolution{Index: i, Method: candidate, Distance: d, Ties: []int{i}}
		case d == best.Distance:
			best.Ties = append(best.Ties, i)
		}
	}
	if best.Index < 0 {
		return Resolution{Index: -1, Distance: Infinite}, errors.NewCompileError(errors.E4004, call)
	}
	if best.Ambiguous() && policy == StrictTies {
		names := make([]string, 0, len(best.Ties))
		for _, i := range best.Ties {
			names = append(names, candidates[i].String())
		}
		return best, &errors.AmbiguousOverloadError{
			Call:       call.String(),
			Candidates: names,
			Distance:   best.Distance,
		}
	}
	return best, nil
}
