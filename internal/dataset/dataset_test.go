package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultCatalog(t *testing.T) {
	items := Default()
	if len(items) < 16 {
		t.Fatalf("embedded catalog has %d degrees", len(items))
	}
	for _, d := range items {
		if d.Category == "" || d.Name["en"] == "" || d.Name["it"] == "" {
			t.Fatalf("incomplete degree %+v", d)
		}
	}
	want := []string{"Engineering", "Science", "Humanities", "Health", "Economics", "Arts"}
	if diff := cmp.Diff(want, Categories(items)); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if got := CountByCategory(items)["Science"]; got != 5 {
		t.Fatalf("Science has %d degrees, want 5", got)
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "not json", data: `nope`, want: "unmarshal"},
		{name: "object root", data: `{"id":"a"}`, want: "unmarshal"},
		{name: "missing id", data: `[{"category":"Arts"}]`, want: "no id"},
		{name: "duplicate id", data: `[{"id":"a","category":"Arts"},{"id":"a","category":"Health"}]`, want: "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseStripsEliminationMetadata(t *testing.T) {
	items, err := Parse([]byte(`[{"id":"a","category":"Arts","round":"phase1","eliminatedAtIndex":3}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if items[0].Round != "" || items[0].EliminatedAtIndex != nil {
		t.Fatalf("metadata kept: %+v", items[0])
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degrees.json")
	body := `[{"id":"x","category":"Arts","name":{"en":"X"}},{"id":"y","category":"Arts"}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	items, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 || items[0].DisplayName("it") != "X" || items[1].DisplayName("en") != "y" {
		t.Fatalf("items = %+v", items)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if items, err := Load(""); err != nil || len(items) != len(Default()) {
		t.Fatalf("Load(\"\") = %d items, %v", len(items), err)
	}
}
