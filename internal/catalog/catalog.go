// Package catalog holds the static job-category taxonomy. The database's
// job_categories table is admin-editable and separate; this catalog is the
// source of truth for the values a job's category field may carry.
package catalog

import (
	"regexp"
	"strings"
)

type Parent struct {
	Key           string
	Label         string
	Subcategories []string
}

// Option is one selectable category value: either a bare parent key or a
// "parent:subcategory-slug" composite.
type Option struct {
	Value string
	Label string
}

var parents = []Parent{
	{
		Key:   "community-support",
		Label: "Community Support",
		Subcategories: []string{
			"Food Banks & Pantries",
			"Homeless Services",
			"Neighborhood Cleanup",
			"Transportation Assistance",
		},
	},
	{
		Key:   "education",
		Label: "Education & Mentoring",
		Subcategories: []string{
			"Tutoring",
			"Youth Mentoring",
			"Adult Literacy",
			"College Prep",
		},
	},
	{
		Key:   "health",
		Label: "Health & Wellness",
		Subcategories: []string{
			"Hospital Support",
			"Blood Drives",
			"Mental Health Support",
			"Senior Care",
		},
	},
	{
		Key:   "environment",
		Label: "Environment & Conservation",
		Subcategories: []string{
			"Park Restoration",
			"Tree Planting",
			"Recycling Programs",
			"Water Conservation",
		},
	},
	{
		Key:   "animals",
		Label: "Animal Welfare",
		Subcategories: []string{
			"Shelter Support",
			"Foster Care",
			"Wildlife Rescue",
		},
	},
	{
		Key:   "arts",
		Label: "Arts & Culture",
		Subcategories: []string{
			"Museum Docents",
			"Community Theater",
			"Music Programs",
		},
	},
	{
		Key:   "disaster-relief",
		Label: "Disaster Relief",
		Subcategories: []string{
			"Emergency Response",
			"Recovery & Rebuilding",
			"Donation Sorting",
		},
	},
	{
		Key:   "faith-based",
		Label: "Faith-Based Service",
		Subcategories: []string{
			"Meal Ministries",
			"Visitation",
			"Facilities Help",
		},
	},
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and collapses every run of non-alphanumeric characters
// into a single hyphen.
func Slugify(s string) string {
	slug := nonAlnumRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

func Parents() []Parent {
	return parents
}

func ParentByKey(key string) (Parent, bool) {
	for _, p := range parents {
		if p.Key == key {
			return p, true
		}
	}
	return Parent{}, false
}

// Flatten produces every selectable value: each parent key, then each
// "parent:subcategory-slug" composite in declaration order.
func Flatten() []Option {
	var options []Option
	for _, p := range parents {
		options = append(options, Option{Value: p.Key, Label: p.Label})
		for _, sub := range p.Subcategories {
			options = append(options, Option{
				Value: p.Key + ":" + Slugify(sub),
				Label: p.Label + " — " + sub,
			})
		}
	}
	return options
}

// ParseValue resolves a category value back to its parent and, for composite
// values, the subcategory display label. ok is false when either part is
// unknown.
func ParseValue(value string) (parent Parent, subcategory string, ok bool) {
	key, slug, composite := strings.Cut(value, ":")

	parent, ok = ParentByKey(key)
	if !ok {
		return Parent{}, "", false
	}

	if !composite {
		return parent, "", true
	}

	for _, sub := range parent.Subcategories {
		if Slugify(sub) == slug {
			return parent, sub, true
		}
	}
	return Parent{}, "", false
}

// IsValidValue reports whether a job may carry this category value.
func IsValidValue(value string) bool {
	_, _, ok := ParseValue(value)
	return ok
}

// LegacyDefaultKey is the bucket for every legacy label the mapping below
// does not recognize.
const LegacyDefaultKey = "community-support"

var legacyLabels = map[string]string{
	"General Volunteering":  "community-support",
	"Food Service":          "community-support:food-banks-pantries",
	"Homeless Outreach":     "community-support:homeless-services",
	"Tutoring & Mentoring":  "education",
	"Youth Programs":        "education:youth-mentoring",
	"Medical":               "health",
	"Elderly Care":          "health:senior-care",
	"Environmental":         "environment",
	"Parks & Recreation":    "environment:park-restoration",
	"Animal Care":           "animals",
	"Arts":                  "arts",
	"Disaster Response":     "disaster-relief",
	"Church & Ministry":     "faith-based",
	"Construction & Repair": "disaster-relief:recovery-rebuilding",
}

// MapLegacyLabel maps an old free-text category label to a taxonomy value.
// The mapping is total: unknown labels land in LegacyDefaultKey.
func MapLegacyLabel(label string) string {
	if key, ok := legacyLabels[strings.TrimSpace(label)]; ok {
		return key
	}
	return LegacyDefaultKey
}

// LegacyLabels returns the known legacy labels, for migration tooling.
func LegacyLabels() []string {
	labels := make([]string, 0, len(legacyLabels))
	for label := range legacyLabels {
		labels = append(labels, label)
	}
	return labels
}
