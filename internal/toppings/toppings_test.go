package toppings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if c.Len() != 9 {
		t.Fatalf("expected 9 toppings, got %d", c.Len())
	}
	names := c.Names()
	if names[0] != "pepperoni" || names[8] != "sauce" {
		t.Fatalf("unexpected order: %v", names)
	}
	if got := c.Image("olives"); got != "images/olives.png" {
		t.Fatalf("image for olives = %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toppings.yaml")
	doc := "toppings:\n  - name: ' Ham '\n  - name: pineapple\n    image: img/pine.svg\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Has("ham") {
		t.Fatal("expected normalized name ham")
	}
	if got := c.Image("ham"); got != "images/ham.png" {
		t.Fatalf("default image = %q", got)
	}
	if got := c.Image("pineapple"); got != "img/pine.svg" {
		t.Fatalf("explicit image = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name    string
		entries []Topping
	}{
		{"empty", nil},
		{"blank name", []Topping{{Name: "ham"}, {Name: "  "}}},
		{"duplicate", []Topping{{Name: "ham"}, {Name: "HAM"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.entries)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("toppings: [")); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestToppingsReturnsCopy(t *testing.T) {
	c := MustNew("ham", "cheese")
	list := c.Toppings()
	list[0].Name = "changed"
	if c.Names()[0] != "ham" {
		t.Fatal("catalog mutated through Toppings()")
	}
	if c.Has("changed") || c.Image("changed") != "" {
		t.Fatal("unknown topping reported as known")
	}
}
