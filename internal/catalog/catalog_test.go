package catalog

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Food Banks & Pantries": "food-banks-pantries",
		"Recovery & Rebuilding": "recovery-rebuilding",
		"  Tutoring  ":          "tutoring",
		"College Prep":          "college-prep",
		"A--B":                  "a-b",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	for _, opt := range Flatten() {
		parent, sub, ok := ParseValue(opt.Value)
		if !ok {
			t.Fatalf("flattened value %q does not parse", opt.Value)
		}

		key, slug, composite := strings.Cut(opt.Value, ":")
		if parent.Key != key {
			t.Errorf("value %q parsed to parent %q", opt.Value, parent.Key)
		}
		if composite && Slugify(sub) != slug {
			t.Errorf("value %q parsed to subcategory %q (slug %q)", opt.Value, sub, Slugify(sub))
		}
		if !composite && sub != "" {
			t.Errorf("parent value %q produced subcategory %q", opt.Value, sub)
		}
	}
}

func TestSubcategorySlugsUniqueWithinParent(t *testing.T) {
	for _, p := range Parents() {
		seen := make(map[string]string)
		for _, sub := range p.Subcategories {
			slug := Slugify(sub)
			if prev, dup := seen[slug]; dup {
				t.Errorf("parent %q: subcategories %q and %q share slug %q", p.Key, prev, sub, slug)
			}
			seen[slug] = sub
		}
	}
}

func TestParseValueRejectsUnknown(t *testing.T) {
	for _, v := range []string{"", "nope", "education:nope", "nope:tutoring"} {
		if _, _, ok := ParseValue(v); ok {
			t.Errorf("ParseValue(%q) unexpectedly ok", v)
		}
	}
}

func TestLegacyMappingIsTotal(t *testing.T) {
	// every known label maps to a real taxonomy value
	for _, label := range LegacyLabels() {
		value := MapLegacyLabel(label)
		if !IsValidValue(value) {
			t.Errorf("legacy label %q maps to invalid value %q", label, value)
		}
	}

	// unknown labels land in the default bucket
	for _, label := range []string{"", "Underwater Basket Weaving", "  "} {
		if got := MapLegacyLabel(label); got != LegacyDefaultKey {
			t.Errorf("MapLegacyLabel(%q) = %q, want %q", label, got, LegacyDefaultKey)
		}
	}

	if !IsValidValue(LegacyDefaultKey) {
		t.Fatalf("default bucket %q is not a valid taxonomy value", LegacyDefaultKey)
	}
}
