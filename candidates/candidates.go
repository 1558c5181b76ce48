// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/voteviz/ordered"
)

var (
	ErrTooFewCandidates = errors.New("two or more candidates are needed")
	ErrDuplicateNames   = errors.New("candidate names must be unique")
)

type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Registry = ordered.Map[string, Candidate]

// New creates a candidate with a fresh ID. An empty color gets a random one.
func New(name, color string, rng *rand.Rand) Candidate {
	if color == "" {
		color = RandomColor(rng)
	}
	return Candidate{
		ID:    uuid.NewString(),
		Name:  Normalize(name),
		Color: color,
	}
}

// RandomColor returns an opaque #rrggbb colour.
func RandomColor(rng *rand.Rand) string {
	return fmt.Sprintf("#%02x%02x%02x", rng.Intn(256), rng.Intn(256), rng.Intn(256))
}

// ValidColor reports whether s is an opaque #rrggbb colour.
func ValidColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Normalize applies NFKC, trims whitespace and drops control characters.
func Normalize(name string) string {
	normed := strings.TrimSpace(norm.NFKC.String(name))
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
}

// Active returns the candidates with a non-empty name, in order.
func Active(list []Candidate) []Candidate {
	out := make([]Candidate, 0, len(list))
	for _, c := range list {
		if Normalize(c.Name) != "" {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the list the way the registry editor does.
func Validate(list []Candidate) error {
	active := Active(list)
	if len(active) < 2 {
		return ErrTooFewCandidates
	}

	fold := cases.Fold()
	seen := make(map[string]bool, len(active))
	for _, c := range active {
		key := fold.String(Normalize(c.Name))
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateNames, c.Name)
		}
		seen[key] = true
	}
	return nil
}

// NewRegistry validates list and builds an ordered registry of its active
// candidates.
func NewRegistry(list []Candidate) (*Registry, error) {
	if err := Validate(list); err != nil {
		return nil, err
	}
	active := Active(list)
	for i := range active {
		active[i].Name = Normalize(active[i].Name)
	}
	return ordered.New(active, func(c Candidate) string { return c.ID })
}

// IDs returns the registry keys in order.
func IDs(reg *Registry) []string {
	return reg.Keys()
}

// DisplayChanged reports whether next has the same IDs as prev, in the same
// order, but a different name or colour somewhere.
func DisplayChanged(prev, next *Registry) bool {
	if !prev.SameKeys(next) {
		return false
	}
	for i := 0; i < prev.Len(); i++ {
		_, a := prev.At(i)
		_, b := next.At(i)
		if a.Name != b.Name || a.Color != b.Color {
			return true
		}
	}
	return false
}
