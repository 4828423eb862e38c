package timeslots

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// mergedPatternNamespace scopes ids synthesized for merged or id-less patterns.
var mergedPatternNamespace = uuid.MustParse("5b0f3f7c-2d4e-4a4b-9c1e-8f6a2d7b9e10")

// Merge collapses fragments that describe the same weekly window into one
// pattern. Fragments are grouped by start, end, repeating and date bounds;
// weekdays, fields and divisions are unioned. A group with a single fragment
// keeps that fragment's id, larger groups get an id derived from the
// contributing ids.
func Merge(patterns []Pattern) []Pattern {
	type group struct {
		members []Pattern
	}

	order := make([]string, 0, len(patterns))
	groups := make(map[string]*group, len(patterns))
	for _, raw := range patterns {
		p := Canonical(raw)
		key := signature(p)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, p)
	}

	merged := make([]Pattern, 0, len(order))
	for _, key := range order {
		members := groups[key].members
		if len(members) == 1 {
			p := members[0]
			if p.ID == "" {
				p.ID = contentID(p)
			}
			merged = append(merged, p)
			continue
		}
		merged = append(merged, mergeGroup(members))
	}
	return merged
}

func mergeGroup(members []Pattern) Pattern {
	first := members[0]
	result := Pattern{
		StartMinutes: first.StartMinutes,
		EndMinutes:   first.EndMinutes,
		Repeating:    first.Repeating,
		StartDate:    first.StartDate,
		EndDate:      first.EndDate,
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		result.Weekdays = append(result.Weekdays, member.Weekdays...)
		result.FieldIDs = append(result.FieldIDs, member.FieldIDs...)
		result.Divisions = append(result.Divisions, member.Divisions...)
		if member.ID != "" {
			ids = append(ids, member.ID)
		} else {
			ids = append(ids, contentID(member))
		}
	}
	sort.Strings(ids)
	result.ID = uuid.NewSHA1(mergedPatternNamespace, []byte(strings.Join(ids, "\x00"))).String()

	return Canonical(result)
}

func signature(p Pattern) string {
	return fmt.Sprintf("%d|%d|%t|%s|%s", p.StartMinutes, p.EndMinutes, p.Repeating, formatDate(p.StartDate), formatDate(p.EndDate))
}

func contentID(p Pattern) string {
	days := make([]string, len(p.Weekdays))
	for i, day := range p.Weekdays {
		days[i] = fmt.Sprint(day)
	}
	content := signature(p) + "|" + strings.Join(days, ",") + "|" + strings.Join(p.FieldIDs, ",")
	return uuid.NewSHA1(mergedPatternNamespace, []byte(content)).String()
}
