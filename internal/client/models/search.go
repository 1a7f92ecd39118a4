package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAge is returned when an age filter is not one of the known categories.
var ErrUnknownAge = errors.New("unknown age category")

// Age categories understood by the remote API.
const (
	AgeBaby   = "Baby"
	AgeYoung  = "Young"
	AgeAdult  = "Adult"
	AgeSenior = "Senior"
)

var ages = []string{AgeBaby, AgeYoung, AgeAdult, AgeSenior}

// Ages lists the known age categories in lifecycle order.
func Ages() []string {
	out := make([]string, len(ages))
	copy(out, ages)
	return out
}

// ParseAge returns the canonical spelling of s. An empty (or blank) s means
// "any age" and is returned as "".
func ParseAge(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, a := range ages {
		if strings.EqualFold(a, s) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAge, s)
}

// SearchParameters is one combined search tuple. Empty fields mean "no filter".
type SearchParameters struct {
	Query string
	Age   string
	Type  string
}

// IsEmpty reports whether no filter is set at all.
func (p SearchParameters) IsEmpty() bool {
	return p.Query == "" && p.Age == "" && p.Type == ""
}
