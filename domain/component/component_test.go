package component_test

import (
	"errors"
	"testing"

	"github.com/esmc/chaos/domain/component"
)

func TestName_RoundTrip(t *testing.T) {
	name := component.Name(component.KindColonel, 17)
	if name != "colonel_17" {
		t.Fatalf("name = %q, want colonel_17", name)
	}

	kind, id, err := component.ParseName(name)
	if err != nil {
		t.Fatalf("ParseName: %v", err)
	}
	if kind != component.KindColonel || id != 17 {
		t.Errorf("parsed (%q, %d), want (colonel, 17)", kind, id)
	}
}

func TestParseName_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"empty", "", component.ErrBadName},
		{"no separator", "hash", component.ErrBadName},
		{"trailing separator", "hash_", component.ErrBadName},
		{"negative id", "hash_-1", component.ErrBadName},
		{"non-numeric id", "hash_abc", component.ErrBadName},
		{"unknown kind", "general_3", component.ErrBadKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := component.ParseName(tc.in); !errors.Is(err, tc.wantErr) {
				t.Errorf("ParseName(%q) err = %v, want %v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func TestParseOp(t *testing.T) {
	id, seq, err := component.ParseOp(component.OpName(4, 9))
	if err != nil {
		t.Fatalf("ParseOp: %v", err)
	}
	if id != 4 || seq != 9 {
		t.Errorf("parsed (%d, %d), want (4, 9)", id, seq)
	}

	for _, bad := range []string{"", "op", "op_1", "x_1_2", "op_a_2", "op_1_b", "op_-1_0"} {
		if _, _, err := component.ParseOp(bad); err == nil {
			t.Errorf("ParseOp(%q) succeeded, want error", bad)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	spec := component.Spec{
		Kinds:           []component.Kind{component.KindHash, component.KindProcessor},
		PerKind:         3,
		OpsPerComponent: 4,
		Version:         "2.1.0",
	}

	a, err := component.Generate(spec)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := component.Generate(spec)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(a) != 6 {
		t.Fatalf("fleet size = %d, want 6", len(a))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].ID != b[i].ID {
			t.Fatalf("generation not deterministic at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerate_UniqueNamesAndOps(t *testing.T) {
	fleet, err := component.Generate(component.Spec{
		Kinds:           component.Kinds,
		PerKind:         5,
		OpsPerComponent: 3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := make(map[string]bool)
	for _, c := range fleet {
		if seen[c.Name] {
			t.Fatalf("duplicate component name %q", c.Name)
		}
		seen[c.Name] = true

		if len(c.Ops) != 3 {
			t.Fatalf("%s has %d ops, want 3", c.Name, len(c.Ops))
		}
		for seq, op := range c.Ops {
			if op != component.OpName(c.ID, seq) {
				t.Errorf("%s op[%d] = %q, want %q", c.Name, seq, op, component.OpName(c.ID, seq))
			}
			if !c.HasOp(op) {
				t.Errorf("%s should report op %q", c.Name, op)
			}
		}
		if c.HasOp("op_99999_0") {
			t.Errorf("%s reports op it does not own", c.Name)
		}
	}
}

func TestGenerate_EmptyFleet(t *testing.T) {
	fleet, err := component.Generate(component.Spec{Kinds: component.Kinds, PerKind: 0})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(fleet) != 0 {
		t.Errorf("fleet size = %d, want 0", len(fleet))
	}
}

func TestGenerate_DefaultVersion(t *testing.T) {
	fleet, err := component.Generate(component.Spec{
		Kinds:           []component.Kind{component.KindIntelligence},
		PerKind:         1,
		OpsPerComponent: 1,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fleet[0].Version != component.DefaultVersion {
		t.Errorf("version = %q, want %q", fleet[0].Version, component.DefaultVersion)
	}
	if fleet[0].Options.Version != component.DefaultVersion {
		t.Errorf("options version = %q, want %q", fleet[0].Options.Version, component.DefaultVersion)
	}
}

func TestGenerate_RejectsBadSpec(t *testing.T) {
	if _, err := component.Generate(component.Spec{Kinds: []component.Kind{"general"}, PerKind: 1}); !errors.Is(err, component.ErrBadKind) {
		t.Errorf("err = %v, want ErrBadKind", err)
	}
	if _, err := component.Generate(component.Spec{Kinds: component.Kinds, PerKind: -1}); !errors.Is(err, component.ErrBadCount) {
		t.Errorf("err = %v, want ErrBadCount", err)
	}
}
