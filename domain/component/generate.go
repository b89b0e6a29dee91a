package component

import "fmt"

// Spec describes the fleet to generate.
type Spec struct {
	Kinds           []Kind // variants to include, canonical order recommended
	PerKind         int    // components per variant
	OpsPerComponent int    // generated operations per component
	Version         string // stamped into every descriptor
}

// DefaultVersion is used when a spec carries no version.
const DefaultVersion = "1.0.0"

// Generate produces the component fleet described by spec.
// IDs are assigned sequentially across kinds in the order given, so the same
// spec always yields the same fleet with the same names.
func Generate(spec Spec) ([]Component, error) {
	if spec.PerKind < 0 || spec.OpsPerComponent < 0 {
		return nil, ErrBadCount
	}
	for _, k := range spec.Kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrBadKind, k)
		}
	}

	version := spec.Version
	if version == "" {
		version = DefaultVersion
	}

	fleet := make([]Component, 0, len(spec.Kinds)*spec.PerKind)
	id := 0
	for _, kind := range spec.Kinds {
		for i := 0; i < spec.PerKind; i++ {
			ops := make([]string, spec.OpsPerComponent)
			for seq := range ops {
				ops[seq] = OpName(id, seq)
			}
			fleet = append(fleet, Component{
				ID:      id,
				Kind:    kind,
				Name:    Name(kind, id),
				Version: version,
				Options: DefaultOptions(kind, version),
				Ops:     ops,
			})
			id++
		}
	}
	return fleet, nil
}

// DefaultOptions derives the capability flags for a variant.
func DefaultOptions(kind Kind, version string) Options {
	opts := Options{Version: version, Validate: true}
	switch kind {
	case KindHash:
		opts.Hash = true
	case KindProcessor:
		opts.Transform = true
	case KindPath:
		opts.Transform = true
	}
	return opts
}
