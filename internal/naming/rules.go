package naming

import (
	"regexp"
	"strings"
)

// MaxLength is the longest name Format accepts.
const MaxLength = 50

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// DefaultReservedWords are names that collide with generated project folders
// or well-known types.
var DefaultReservedWords = []string{
	"App",
	"Page",
	"Feature",
	"Resources",
	"Properties",
	"Assets",
	"Template",
}

type existingNames struct {
	used map[string]struct{}
	self string
}

// ExistingNames rejects a candidate equal to any used name except self.
// Pass an empty self when no instance is being renamed.
func ExistingNames(used []string, self string) Rule {
	set := make(map[string]struct{}, len(used))
	for _, name := range used {
		set[name] = struct{}{}
	}
	return &existingNames{used: set, self: self}
}

func (r *existingNames) Check(candidate string) ErrorKind {
	if candidate == r.self && r.self != "" {
		return None
	}
	if _, ok := r.used[candidate]; ok {
		return AlreadyExists
	}
	return None
}

func (r *existingNames) size() int { return len(r.used) }

type reserved struct {
	words map[string]struct{}
}

// Reserved rejects a candidate matching any of words, ignoring case.
func Reserved(words ...string) Rule {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &reserved{words: set}
}

func (r *reserved) Check(candidate string) ErrorKind {
	if _, ok := r.words[strings.ToLower(candidate)]; ok {
		return ReservedName
	}
	return None
}

func (r *reserved) size() int { return len(r.words) }

type defaultNames struct {
	names map[string]struct{}
}

// DefaultNames rejects a candidate equal to one of names. It is meant for
// templates with free naming so users cannot claim a name that a fixed-name
// template would need.
func DefaultNames(names ...string) Rule {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return &defaultNames{names: set}
}

func (r *defaultNames) Check(candidate string) ErrorKind {
	if _, ok := r.names[candidate]; ok {
		return DefaultName
	}
	return None
}

func (r *defaultNames) size() int { return len(r.names) }

// Format checks that a candidate is a usable identifier.
func Format() Rule {
	return RuleFunc(func(candidate string) ErrorKind {
		switch {
		case strings.TrimSpace(candidate) == "":
			return Empty
		case len(candidate) > MaxLength:
			return TooLong
		case !namePattern.MatchString(candidate):
			return BadFormat
		}
		return None
	})
}
