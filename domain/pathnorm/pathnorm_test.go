package pathnorm_test

import (
	"errors"
	"testing"

	"github.com/esmc/chaos/domain/pathnorm"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain", "esmc/chaos/hash/hash_0", "esmc/chaos/hash/hash_0", nil},
		{"leading slash", "/esmc/chaos/hash/hash_0", "esmc/chaos/hash/hash_0", nil},
		{"double slashes", "esmc//chaos///hash", "esmc/chaos/hash", nil},
		{"dot segments", "esmc/./chaos/x/../hash", "esmc/chaos/hash", nil},
		{"backslashes", "esmc\\chaos\\hash", "esmc/chaos/hash", nil},
		{"empty", "", "", pathnorm.ErrEmpty},
		{"whitespace", "   ", "", pathnorm.ErrEmpty},
		{"root only", "/", "", pathnorm.ErrEmpty},
		{"leading traversal", "../../etc/passwd", "", pathnorm.ErrEscape},
		{"climb out mid-path", "esmc/../../x", "", pathnorm.ErrEscape},
		{"collapses to parent", "a/../..", "", pathnorm.ErrEscape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pathnorm.Normalize(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_RejectsTraversal(t *testing.T) {
	got, err := pathnorm.Normalize("../../etc/passwd")
	if !errors.Is(err, pathnorm.ErrEscape) {
		t.Fatalf("Normalize(\"../../etc/passwd\") = (%q, %v), want ErrEscape", got, err)
	}
}

func TestJoinSplit_RoundTrip(t *testing.T) {
	p := pathnorm.Join("colonel", "colonel_12")
	kind, name, err := pathnorm.Split(p)
	if err != nil {
		t.Fatalf("Split(%q): %v", p, err)
	}
	if kind != "colonel" || name != "colonel_12" {
		t.Errorf("Split = (%q, %q), want (colonel, colonel_12)", kind, name)
	}
}

func TestSplit_Rejects(t *testing.T) {
	cases := []struct {
		in      string
		wantErr error
	}{
		{"other/root/hash/hash_0", pathnorm.ErrNotUnder},
		{"esmc/chaos/hash", pathnorm.ErrBadDepth},
		{"esmc/chaos/hash/hash_0/extra", pathnorm.ErrBadDepth},
		{"", pathnorm.ErrEmpty},
	}
	for _, tc := range cases {
		if _, _, err := pathnorm.Split(tc.in); !errors.Is(err, tc.wantErr) {
			t.Errorf("Split(%q) err = %v, want %v", tc.in, err, tc.wantErr)
		}
	}
}
