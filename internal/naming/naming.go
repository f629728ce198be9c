// Package naming validates and infers template instance names.
//
// Validation is a pipeline of rules evaluated in order; the first failing
// rule decides the reported ErrorKind. Rules are plain values so callers can
// compose the set that applies to a given template (for example, only
// templates with free naming are checked against disallowed default names).
//
// Key components:
//   - Rule: a single check returning an ErrorKind
//   - Validate: runs a rule pipeline against a candidate
//   - Infer: derives the first valid name from a base by numeric suffixing
package naming

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInferenceExhausted is returned by Infer when no suffixed candidate within
// the search bound satisfies the rules.
var ErrInferenceExhausted = errors.New("no valid name could be inferred")

// ErrorKind classifies why a name was rejected.
type ErrorKind int

const (
	None ErrorKind = iota
	Empty
	BadFormat
	TooLong
	AlreadyExists
	ReservedName
	DefaultName
)

func (k ErrorKind) String() string {
	switch k {
	case None:
		return "none"
	case Empty:
		return "empty"
	case BadFormat:
		return "bad-format"
	case TooLong:
		return "too-long"
	case AlreadyExists:
		return "already-exists"
	case ReservedName:
		return "reserved-name"
	case DefaultName:
		return "default-name"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule checks a candidate name and reports None when it passes.
type Rule interface {
	Check(candidate string) ErrorKind
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(candidate string) ErrorKind

// Check calls f(candidate).
func (f RuleFunc) Check(candidate string) ErrorKind {
	return f(candidate)
}

// sized is implemented by rules that block a known number of names. Infer
// uses it to bound its search.
type sized interface {
	size() int
}

// Result is the outcome of Validate.
type Result struct {
	Valid bool
	Kind  ErrorKind
}

// Validate runs rules in order and returns the first failure.
func Validate(candidate string, rules ...Rule) Result {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if kind := rule.Check(candidate); kind != None {
			return Result{Valid: false, Kind: kind}
		}
	}
	return Result{Valid: true, Kind: None}
}

// Infer returns base when it satisfies rules, otherwise base followed by the
// smallest numeric suffix that does. At most one candidate per blocked name
// plus one is tried.
func Infer(base string, rules ...Rule) (string, error) {
	if Validate(base, rules...).Valid {
		return base, nil
	}

	limit := 1
	for _, rule := range rules {
		if s, ok := rule.(sized); ok {
			limit += s.size()
		}
	}

	for i := 1; i <= limit; i++ {
		candidate := base + strconv.Itoa(i)
		if Validate(candidate, rules...).Valid {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: base %q after %d attempts", ErrInferenceExhausted, base, limit)
}
