package catalog

import (
	"testing"

	"github.com/hunet324/expertlink/internal/models"
)

func TestValidate_TableIsComplete(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("descriptor table incomplete: %v", err)
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(models.CategoryMeditation)
	if !ok {
		t.Fatal("meditation descriptor missing")
	}
	if d.Label == "" || d.Order == 0 {
		t.Fatalf("descriptor not populated: %+v", d)
	}

	if _, ok := Lookup("astrology"); ok {
		t.Fatal("unknown category resolved to a descriptor")
	}
}

func TestIsValid(t *testing.T) {
	for _, c := range AllCategories {
		if !IsValid(c) {
			t.Fatalf("category %q reported invalid", c)
		}
	}
	if IsValid("") {
		t.Fatal("empty category reported valid")
	}
}

func TestOrdersAreUnique(t *testing.T) {
	seen := make(map[int]models.ContentCategory)
	for _, c := range AllCategories {
		d, _ := Lookup(c)
		if prev, dup := seen[d.Order]; dup {
			t.Fatalf("categories %q and %q share order %d", prev, c, d.Order)
		}
		seen[d.Order] = c
	}
}
