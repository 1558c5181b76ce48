// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"encoding/json"
	"fmt"
)

type StatusKind int

const (
	StatusVotes StatusKind = iota
	StatusElected
	StatusEliminated
)

func (k StatusKind) String() string {
	switch k {
	case StatusElected:
		return "elected"
	case StatusEliminated:
		return "eliminated"
	default:
		return "votes"
	}
}

// Status is one round's entry in a candidate's track.
type Status struct {
	Kind  StatusKind
	Votes int
}

func Votes(n int) Status { return Status{Kind: StatusVotes, Votes: n} }

var (
	Elected    = Status{Kind: StatusElected}
	Eliminated = Status{Kind: StatusEliminated}
)

// Terminal reports whether the status ends a candidate's track.
func (s Status) Terminal() bool {
	return s.Kind != StatusVotes
}

// MarshalJSON encodes counts as numbers and terminal statuses as strings.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Kind == StatusVotes {
		return json.Marshal(s.Votes)
	}
	return json.Marshal(s.Kind.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Votes(n)
		return nil
	}

	var kind string
	if err := json.Unmarshal(data, &kind); err != nil {
		return fmt.Errorf("decode round status: %w", err)
	}
	switch kind {
	case "elected":
		*s = Elected
	case "eliminated":
		*s = Eliminated
	default:
		return fmt.Errorf("unknown round status %q", kind)
	}
	return nil
}
