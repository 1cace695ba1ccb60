package qdrant

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "kubernetes-course", "kubernetes-course"},
		{"uppercase folded", "My Project", "my_project"},
		{"surrounding spaces trimmed", "  docs  ", "docs"},
		{"punctuation replaced", "go 1.22: intro!", "go_1_22__intro_"},
		{"unicode replaced", "vidéo café", "vid_o_caf_"},
		{"digits kept", "week2", "week2"},
		{"empty", "", ""},
		{"only symbols", "!!!", "___"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCollectionName(tt.input); got != tt.expected {
				t.Errorf("NormalizeCollectionName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCollectionNameProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)

	validRune := func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
	}

	properties.Property("output stays inside the allowed charset", prop.ForAll(
		func(name string) bool {
			for _, r := range NormalizeCollectionName(name) {
				if !validRune(r) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("normalization is idempotent", prop.ForAll(
		func(name string) bool {
			once := NormalizeCollectionName(name)
			return NormalizeCollectionName(once) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestPointIDStable(t *testing.T) {
	a := PointID("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	b := PointID("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	if a != b {
		t.Errorf("PointID must be deterministic, got %d and %d", a, b)
	}
	if a == PointID("f47ac10b-58cc-4372-a567-0e02b2c3d480") {
		t.Error("distinct ids should map to distinct points")
	}
}

func TestPointIDProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("deterministic over arbitrary ids", prop.ForAll(
		func(id string) bool {
			return PointID(id) == PointID(id)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
