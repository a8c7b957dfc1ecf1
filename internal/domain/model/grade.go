package model

import "strings"

// Grade is an ordered competence rank for officials. The scale runs
// D < C < B < A; an empty or unknown grade ranks 0 and never satisfies
// or triggers grade comparisons.
type Grade string

// Known grades, best first.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// LowestGrade is the fallback requirement when neither the fixture nor the
// division policy names a grade.
const LowestGrade = GradeD

// Rank returns the ordinal of the grade: D=1, C=2, B=3, A=4, unknown=0.
func (g Grade) Rank() int {
	switch Grade(strings.ToUpper(strings.TrimSpace(string(g)))) {
	case GradeD:
		return 1
	case GradeC:
		return 2
	case GradeB:
		return 3
	case GradeA:
		return 4
	}
	return 0
}

// Known reports whether the grade is on the scale.
func (g Grade) Known() bool {
	return g.Rank() > 0
}

// AtLeast reports whether g ranks at or above other. Unknown grades never
// satisfy a requirement.
func (g Grade) AtLeast(other Grade) bool {
	gr, or := g.Rank(), other.Rank()
	return gr > 0 && or > 0 && gr >= or
}

// ParseGrade normalizes a stored grade string. Unknown values map to the
// empty grade rather than an error; rank 0 handles them downstream.
func ParseGrade(s string) Grade {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	if g.Rank() == 0 {
		return ""
	}
	return g
}
