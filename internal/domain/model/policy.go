package model

import "strings"

// DivisionGradePolicy maps division names (case-insensitive) to the minimum
// acceptable grade for fixtures in that division.
type DivisionGradePolicy map[string]Grade

// ParseDivisionGradePolicy builds a policy from a string map, normalizing
// keys and dropping unknown grades.
func ParseDivisionGradePolicy(raw map[string]string) DivisionGradePolicy {
	p := make(DivisionGradePolicy, len(raw))
	for division, grade := range raw {
		if g := ParseGrade(grade); g.Known() {
			p[strings.ToLower(strings.TrimSpace(division))] = g
		}
	}
	return p
}

// RequiredGrade returns the minimum grade for a fixture: the fixture-level
// override when set, else the division policy entry, else the lowest grade.
func (p DivisionGradePolicy) RequiredGrade(f *Fixture) Grade {
	if f.ExpectedGrade.Known() {
		return f.ExpectedGrade
	}
	if g, ok := p[strings.ToLower(strings.TrimSpace(f.Division))]; ok && g.Known() {
		return g
	}
	return LowestGrade
}
