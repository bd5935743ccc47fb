package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPromos(t *testing.T) {
	reg := DefaultPromos()

	if reg.Version() == "" {
		t.Fatal("expected a registry version")
	}
	p, ok := reg.Lookup(" first20")
	if !ok {
		t.Fatal("expected FIRST20 to resolve")
	}
	if p.PercentOff != 20 {
		t.Fatalf("expected 20%% off, got %d", p.PercentOff)
	}
	if _, ok := reg.Lookup("NOTREAL"); ok {
		t.Fatal("expected unknown code to miss")
	}
}

func TestParsePromoRegistry_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing version": "promos:\n  - code: A\n    percentOff: 5\n",
		"zero percent":    "version: v1\npromos:\n  - code: A\n    percentOff: 0\n",
		"over hundred":    "version: v1\npromos:\n  - code: A\n    percentOff: 101\n",
		"duplicate":       "version: v1\npromos:\n  - code: a\n    percentOff: 5\n  - code: A \n    percentOff: 6\n",
		"empty code":      "version: v1\npromos:\n  - code: \" \"\n    percentOff: 5\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePromoRegistry([]byte(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadPromoRegistry_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promos.yaml")
	doc := "version: spring\npromos:\n  - code: spring15\n    percentOff: 15\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg, err := LoadPromoRegistry(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p, ok := reg.Lookup("SPRING15"); !ok || p.PercentOff != 15 {
		t.Fatalf("expected SPRING15 at 15%%, got %+v ok=%v", p, ok)
	}
	if _, ok := reg.Lookup("FIRST20"); ok {
		t.Fatal("file registry must replace the embedded one")
	}
}
