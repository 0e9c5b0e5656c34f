package grouping

import (
	"sort"
	"strings"
)

// SectorFamily selects the baseline path for a group. Industry groups get a
// computed counterfactual, commercial and residential groups receive a
// precomputed baseline series.
type SectorFamily string

const (
	FamilyIndustry    SectorFamily = "industry"
	FamilyCommercial  SectorFamily = "commercial"
	FamilyResidential SectorFamily = "residential"
)

// IsValid reports whether the family is one of the known variants.
func (f SectorFamily) IsValid() bool {
	switch f {
	case FamilyIndustry, FamilyCommercial, FamilyResidential:
		return true
	default:
		return false
	}
}

// Group is the resolved tagging of a raw process identifier.
type Group struct {
	Name           string
	Family         SectorFamily
	HydrogenSource string
}

type prefixRule struct {
	prefix string
	group  Group
}

// Grouper maps raw process identifiers to groups. The mapping is fixed at
// construction and never mutated afterwards, so a Grouper is safe to share
// across workers.
type Grouper struct {
	exact    map[string]Group
	prefixes []prefixRule
}

// NewGrouper builds a Grouper from configuration.
func NewGrouper(cfg Config) (*Grouper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grouper := &Grouper{exact: make(map[string]Group)}
	for _, gc := range cfg.Groups {
		group := Group{
			Name:           gc.Name,
			Family:         SectorFamily(strings.ToLower(gc.Family)),
			HydrogenSource: gc.HydrogenSource,
		}
		// A group always matches its own name.
		grouper.exact[normalizeProcess(gc.Name)] = group
		for _, process := range gc.Processes {
			grouper.exact[normalizeProcess(process)] = group
		}
		for _, prefix := range gc.Prefixes {
			grouper.prefixes = append(grouper.prefixes, prefixRule{
				prefix: normalizeProcess(prefix),
				group:  group,
			})
		}
	}
	// Longer prefixes win over shorter ones regardless of config order.
	sort.Slice(grouper.prefixes, func(i, j int) bool {
		a, b := grouper.prefixes[i], grouper.prefixes[j]
		if len(a.prefix) != len(b.prefix) {
			return len(a.prefix) > len(b.prefix)
		}
		return a.prefix < b.prefix
	})
	return grouper, nil
}

// Resolve maps a raw process identifier to its group. Unrecognized
// identifiers are an error, never silently dropped.
func (g *Grouper) Resolve(process, region string) (Group, error) {
	normalized := normalizeProcess(process)
	if group, ok := g.exact[normalized]; ok {
		return group, nil
	}
	for _, rule := range g.prefixes {
		if strings.HasPrefix(normalized, rule.prefix) {
			return rule.group, nil
		}
	}
	return Group{}, &UnknownProcessError{Process: process, Region: region}
}

func normalizeProcess(process string) string {
	return strings.ToLower(strings.TrimSpace(process))
}
