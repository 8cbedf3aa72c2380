package guidance

import "github.com/jonathan/career-guide/internal/types"

// Predicate decides whether a rule applies to a profile. Predicates must be pure.
type Predicate func(p types.Profile) bool

// Rule maps a predicate to the group of job roles it contributes.
type Rule struct {
	Name  string
	Match Predicate
	Roles []string
}

// FallbackRuleName is reported by Explain when no rule matched.
const FallbackRuleName = "fallback"

// FallbackRoles are recommended only when no rule in the table matched.
var FallbackRoles = []string{"Software Developer", "Technical Analyst", "IT Consultant"}

// HasInterest matches profiles that selected the given catalog interest.
func HasInterest(label string) Predicate {
	return func(p types.Profile) bool {
		return p.HasInterest(label)
	}
}

// SkillContains matches profiles where any skill contains one of the substrings,
// case-insensitively. The match is a raw substring test: "ai" also matches "Fairness".
func SkillContains(substrings ...string) Predicate {
	return func(p types.Profile) bool {
		return p.AnySkillContains(substrings...)
	}
}

// AnyOf matches when at least one of the predicates matches.
func AnyOf(preds ...Predicate) Predicate {
	return func(p types.Profile) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// DefaultRules returns the job role table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "web-development",
			Match: AnyOf(HasInterest(types.InterestWebDevelopment), SkillContains("web")),
			Roles: []string{"Frontend Developer", "Full Stack Developer", "Web Designer"},
		},
		{
			Name:  "data-science",
			Match: AnyOf(HasInterest(types.InterestDataScience), SkillContains("python", "data")),
			Roles: []string{"Data Analyst", "Data Scientist", "Machine Learning Engineer"},
		},
		{
			Name:  "cybersecurity",
			Match: HasInterest(types.InterestCybersecurity),
			Roles: []string{"Security Analyst", "Penetration Tester", "Security Consultant"},
		},
		{
			Name:  "artificial-intelligence",
			Match: AnyOf(HasInterest(types.InterestArtificialIntelligence), SkillContains("ai", "machine learning")),
			Roles: []string{"AI Engineer", "ML Research Scientist", "AI Product Manager"},
		},
	}
}
