// Package guidance turns a validated profile into job roles, resume tips and next steps.
//
// The Engine is a pure rule table: it performs no I/O, keeps no state between
// calls and is safe for concurrent use. Generator abstracts over where the
// guidance comes from (the local engine, a remote service, or an LLM-enhanced
// wrapper around either).
package guidance

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-guide/internal/types"
)

// maxHighlightedSkills bounds how many skills the first resume tip cites.
const maxHighlightedSkills = 3

var (
	baseResumeTips = []string{
		"Include quantifiable achievements and project outcomes",
		"Tailor your resume to match job descriptions in your target field",
		"Add relevant certifications and continuous learning initiatives",
	}

	goalResumeTips = map[types.Goal]string{
		types.GoalInternship: "Emphasize your academic projects and any practical experience",
		types.GoalJob:        "Focus on professional experience and measurable results",
	}

	educationStep = "Consider pursuing relevant certifications or a degree program"

	baseNextSteps = []string{
		"Build a portfolio showcasing your projects and skills",
		"Network with professionals in your field of interest",
		"Apply for relevant positions on job portals and company websites",
		"Continuously update your skills through online courses and practice",
	}

	higherStudiesSteps = []string{
		"Research graduate programs aligned with your interests",
		"Prepare for entrance exams if required",
	}
)

// Engine evaluates an ordered rule table against a profile.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules, evaluated in order.
// With no rules, DefaultRules is used.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: append([]Rule(nil), rules...)}
}

var defaultEngine = NewEngine()

// Generate builds guidance for p using the default rule table.
func Generate(p types.Profile) types.Recommendation {
	return defaultEngine.Generate(p)
}

// Explain reports which default rules fire for p.
func Explain(p types.Profile) []string {
	return defaultEngine.Explain(p)
}

// Generate builds guidance for p. It never fails for a profile built by types.NewProfile.
func (e *Engine) Generate(p types.Profile) types.Recommendation {
	return types.Recommendation{
		JobRoles:   e.jobRoles(p),
		ResumeTips: resumeTips(p),
		NextSteps:  nextSteps(p),
	}
}

// Explain returns the names of the rules that match p, in evaluation order,
// or FallbackRuleName when none do.
func (e *Engine) Explain(p types.Profile) []string {
	var names []string
	for _, rule := range e.rules {
		if rule.Match(p) {
			names = append(names, rule.Name)
		}
	}
	if len(names) == 0 {
		return []string{FallbackRuleName}
	}
	return names
}

func (e *Engine) jobRoles(p types.Profile) []string {
	var roles []string
	for _, rule := range e.rules {
		if rule.Match(p) {
			roles = append(roles, rule.Roles...)
		}
	}

	// Fallback runs once, after the whole table.
	if len(roles) == 0 {
		roles = append(roles, FallbackRoles...)
	}
	return roles
}

func resumeTips(p types.Profile) []string {
	skills := p.Skills()
	if len(skills) > maxHighlightedSkills {
		skills = skills[:maxHighlightedSkills]
	}

	tips := make([]string, 0, len(baseResumeTips)+2)
	tips = append(tips, fmt.Sprintf("Highlight your %s skills prominently in your skills section", strings.Join(skills, ", ")))
	tips = append(tips, baseResumeTips...)

	if tip, ok := goalResumeTips[p.Goal()]; ok {
		tips = append(tips, tip)
	}
	return tips
}

func nextSteps(p types.Profile) []string {
	steps := make([]string, 0, len(baseNextSteps)+len(higherStudiesSteps)+1)

	switch p.Education() {
	case types.EducationHighSchool, types.EducationDiploma:
		steps = append(steps, educationStep)
	}

	steps = append(steps, baseNextSteps...)

	if p.Goal() == types.GoalHigherStudies {
		steps = append(steps, higherStudiesSteps...)
	}
	return steps
}
