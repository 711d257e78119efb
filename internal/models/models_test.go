package models

import (
	"reflect"
	"testing"
)

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		id   string
		want Family
	}{
		{"gemini-2.5-pro", FamilyGemini},
		{"Gemini-2.0-Flash-001", FamilyGemini},
		{"claude-3-5-sonnet-latest", FamilyClaude},
		{"anthropic.claude-3-sonnet-20240229-v1:0", FamilyClaude},
		{"gpt-4o", FamilyGeneric},
		{"amazon.titan-text-express-v1", FamilyGeneric},
		{"", FamilyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := FamilyOf(tt.id); got != tt.want {
				t.Errorf("FamilyOf(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestNewSpecOverride(t *testing.T) {
	overrides := map[string]string{"vertex-video-large": "gemini", "broken": "nonsense"}

	if got := NewSpec("vertex-video-large", overrides); got.Family != FamilyGemini {
		t.Errorf("override family = %v, want gemini", got.Family)
	}
	if got := NewSpec("broken", overrides); got.Family != FamilyGeneric {
		t.Errorf("invalid override family = %v, want inferred generic", got.Family)
	}
	if got := NewSpec("claude-3-opus-20240229", nil); got.Family != FamilyClaude {
		t.Errorf("inferred family = %v, want claude", got.Family)
	}
}

func TestBuildPriorityList(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		fallbacks []string
		want      []string
	}{
		{
			name:      "primary first",
			primary:   "claude-3-5-sonnet-latest",
			fallbacks: []string{"gemini-2.5-pro", "gemini-2.5-flash"},
			want:      []string{"claude-3-5-sonnet-latest", "gemini-2.5-pro", "gemini-2.5-flash"},
		},
		{
			name:      "primary repeated in fallbacks",
			primary:   "gemini-2.5-pro",
			fallbacks: []string{"gemini-2.5-pro", "gemini-2.5-flash"},
			want:      []string{"gemini-2.5-pro", "gemini-2.5-flash"},
		},
		{
			name:      "duplicates within fallbacks keep first",
			primary:   "a",
			fallbacks: []string{"b", "c", "b", "a", "c"},
			want:      []string{"a", "b", "c"},
		},
		{
			name:      "blank entries dropped",
			primary:   "a",
			fallbacks: []string{"", "  ", "b"},
			want:      []string{"a", "b"},
		},
		{
			name:    "primary only",
			primary: "a",
			want:    []string{"a"},
		},
		{
			name:      "no primary",
			primary:   "",
			fallbacks: []string{"b"},
			want:      []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPriorityList(tt.primary, tt.fallbacks, nil).IDs()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildPriorityList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildPriorityListAttachesFamily(t *testing.T) {
	list := BuildPriorityList("gemini-2.5-pro", []string{"claude-3-haiku-20240307", "gpt-4o"}, nil)
	want := []Family{FamilyGemini, FamilyClaude, FamilyGeneric}
	for i, spec := range list {
		if spec.Family != want[i] {
			t.Errorf("list[%d].Family = %v, want %v", i, spec.Family, want[i])
		}
	}
}
