// Package models describes the candidate LLMs a brief can be generated with.
package models

import "strings"

// Family groups models that share a request-payload convention.
type Family int

const (
	FamilyGeneric Family = iota
	FamilyGemini
	FamilyClaude
)

func (f Family) String() string {
	switch f {
	case FamilyGemini:
		return "gemini"
	case FamilyClaude:
		return "claude"
	default:
		return "generic"
	}
}

// ParseFamily maps a configuration value to a Family.
func ParseFamily(s string) (Family, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini":
		return FamilyGemini, true
	case "claude":
		return FamilyClaude, true
	case "generic":
		return FamilyGeneric, true
	}
	return FamilyGeneric, false
}

// FamilyOf infers the family from a model identifier.
func FamilyOf(id string) Family {
	lower := strings.ToLower(id)
	switch {
	case strings.Contains(lower, "gemini"):
		return FamilyGemini
	case strings.Contains(lower, "claude"):
		return FamilyClaude
	default:
		return FamilyGeneric
	}
}

// Spec identifies one candidate model. The family is fixed at construction.
type Spec struct {
	ID     string
	Family Family
}

// NewSpec builds a Spec, preferring an explicit family override for id.
func NewSpec(id string, overrides map[string]string) Spec {
	if name, ok := overrides[id]; ok {
		if f, ok := ParseFamily(name); ok {
			return Spec{ID: id, Family: f}
		}
	}
	return Spec{ID: id, Family: FamilyOf(id)}
}

func (s Spec) String() string {
	return s.ID
}

// PriorityList is the ordered set of candidates, primary first.
type PriorityList []Spec

// BuildPriorityList puts primary first and appends fallbacks, dropping blank
// and repeated identifiers while keeping the first occurrence.
func BuildPriorityList(primary string, fallbacks []string, overrides map[string]string) PriorityList {
	seen := make(map[string]bool, len(fallbacks)+1)
	list := make(PriorityList, 0, len(fallbacks)+1)

	for _, id := range append([]string{primary}, fallbacks...) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		list = append(list, NewSpec(id, overrides))
	}
	return list
}

// IDs returns the identifiers in priority order.
func (l PriorityList) IDs() []string {
	ids := make([]string, len(l))
	for i, s := range l {
		ids[i] = s.ID
	}
	return ids
}
