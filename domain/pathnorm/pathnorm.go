// Package pathnorm normalizes virtual component paths.
//
// Component paths have the shape "esmc/chaos/<kind>/<name>". The package
// cleans raw input, rejects traversal, and splits paths back into their
// parts. All functions are pure.
package pathnorm

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Root is the prefix every component path lives under.
const Root = "esmc/chaos"

// Errors returned by path operations.
var (
	ErrEmpty     = errors.New("empty path")
	ErrEscape    = errors.New("path escapes the component root")
	ErrNotUnder  = errors.New("path not under component root")
	ErrBadDepth  = errors.New("component path must be root/<kind>/<name>")
)

// Normalize cleans a raw path: collapses slashes and dot segments and strips
// leading slashes. Paths are relative to a virtual root; any input whose dot
// segments climb above it is rejected with ErrEscape. Cleaning happens on the
// relative form so surviving leading ".." segments are visible to the check.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmpty
	}
	slashed := strings.ReplaceAll(raw, "\\", "/")
	cleaned := path.Clean(strings.TrimLeft(slashed, "/"))
	if cleaned == "." || cleaned == "" {
		return "", ErrEmpty
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrEscape, raw)
	}
	return cleaned, nil
}

// Join builds the canonical path for a component.
func Join(kind, name string) string {
	return path.Join(Root, kind, name)
}

// Split breaks a component path into kind and name after normalizing it.
func Split(raw string) (kind, name string, err error) {
	p, err := Normalize(raw)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(p, Root+"/") {
		return "", "", fmt.Errorf("%w: %q", ErrNotUnder, raw)
	}
	rest := strings.TrimPrefix(p, Root+"/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadDepth, raw)
	}
	return parts[0], parts[1], nil
}
