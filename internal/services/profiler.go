package services

import (
	"sort"
	"strings"
)

type MemberPreferences struct {
	Username string
	Tags     []string
}

// GroupProfile holds the preference tags that represent a travel group,
// keyed by tag with their support among the members.
type GroupProfile struct {
	Size       int
	MinSupport float64
	Support    map[string]float64
}

func (p GroupProfile) Contains(tag string) bool {
	_, ok := p.Support[tag]
	return ok
}

func (p GroupProfile) IsEmpty() bool {
	return len(p.Support) == 0
}

// Tags returns the profile tags in alphabetical order.
func (p GroupProfile) Tags() []string {
	tags := make([]string, 0, len(p.Support))
	for t := range p.Support {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// BuildGroupProfile counts, per tag, how many members list it and keeps the
// tags shared by at least two members. Members without preferences still
// count toward the group size.
func BuildGroupProfile(members []MemberPreferences) GroupProfile {
	seen := make(map[string]struct{}, len(members))
	counts := make(map[string]int)

	for _, m := range members {
		if _, dup := seen[m.Username]; dup {
			continue
		}
		seen[m.Username] = struct{}{}
		for _, tag := range NormalizeTags(m.Tags) {
			counts[tag]++
		}
	}

	return GroupProfile{
		Size:       len(seen),
		MinSupport: minSupport(len(seen)),
		Support:    frequentSingletons(counts, len(seen)),
	}
}

// NormalizeTags lowercases and trims tags, splits comma-joined entries and
// drops empties and duplicates. Input order is preserved.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
