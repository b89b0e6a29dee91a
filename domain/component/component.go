// Package component defines component descriptors and deterministic fleet
// generation. All functions are pure - the same generation spec always yields
// the same fleet.
package component

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a component variant.
type Kind string

// Component variants.
const (
	KindHash         Kind = "hash"
	KindPath         Kind = "path"
	KindProcessor    Kind = "processor"
	KindColonel      Kind = "colonel"
	KindIntelligence Kind = "intelligence"
)

// Kinds lists all valid variants in canonical order.
var Kinds = []Kind{KindHash, KindPath, KindProcessor, KindColonel, KindIntelligence}

// Valid reports whether k names a known variant.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Options is the capability set attached to every component.
type Options struct {
	Version   string `json:"version"`
	Hash      bool   `json:"hash"`
	Validate  bool   `json:"validate"`
	Transform bool   `json:"transform"`
}

// Component describes one registered component (value type).
type Component struct {
	ID      int     `json:"id"`
	Kind    Kind    `json:"kind"`
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Options Options `json:"options"`
	Ops     []string `json:"ops"`
}

// Errors returned by parsing and generation.
var (
	ErrBadName  = errors.New("malformed component name")
	ErrBadOp    = errors.New("malformed operation name")
	ErrBadKind  = errors.New("unknown component kind")
	ErrBadCount = errors.New("count must not be negative")
)

// Name formats the canonical component name for a kind and numeric ID.
func Name(kind Kind, id int) string {
	return fmt.Sprintf("%s_%d", kind, id)
}

// OpName formats the canonical operation name for a component ID and
// operation sequence number.
func OpName(id, seq int) string {
	return fmt.Sprintf("op_%d_%d", id, seq)
}

// ParseName splits a component name into kind and ID.
func ParseName(name string) (Kind, int, error) {
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	kind := Kind(name[:idx])
	if !kind.Valid() {
		return "", 0, fmt.Errorf("%w: %q", ErrBadKind, name[:idx])
	}
	id, err := strconv.Atoi(name[idx+1:])
	if err != nil || id < 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return kind, id, nil
}

// ParseOp splits an operation name into component ID and sequence number.
func ParseOp(op string) (id, seq int, err error) {
	parts := strings.Split(op, "_")
	if len(parts) != 3 || parts[0] != "op" {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadOp, op)
	}
	id, err = strconv.Atoi(parts[1])
	if err != nil || id < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadOp, op)
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadOp, op)
	}
	return id, seq, nil
}

// HasOp reports whether the component exposes the named operation.
func (c Component) HasOp(op string) bool {
	for _, o := range c.Ops {
		if o == op {
			return true
		}
	}
	return false
}
