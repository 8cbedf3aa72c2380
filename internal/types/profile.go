// Package types provides the data model shared by the guidance engine, its transports and the CLI.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProfileRequest is the raw form submission as it arrives on the wire.
type ProfileRequest struct {
	Skills    []string  `json:"skills" validate:"required,min=1,dive,required"`
	Interests []string  `json:"interests" validate:"required,min=1,dive,interest"`
	Education Education `json:"education" validate:"required,oneof=high-school diploma btech mtech phd other"`
	Goal      Goal      `json:"goal" validate:"required,oneof=internship job higher-studies not-sure"`
}

// Profile is a validated form submission. The zero value is not usable;
// construct one with NewProfile. A Profile is never mutated after construction.
type Profile struct {
	skills    []string
	interests []string
	education Education
	goal      Goal
}

// ValidationError reports the first field that failed the form preconditions.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("interest", func(fl validator.FieldLevel) bool {
		return IsCatalogInterest(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register interest validator: %v", err))
	}
	return v
}

// NewProfile normalizes and validates a form submission.
//
// Skills are trimmed, blank entries dropped and exact duplicates removed keeping
// the first occurrence; interests are de-duplicated the same way. Fields are
// checked in form order (skills, interests, education, goal) and the first
// failure is returned as a *ValidationError.
func NewProfile(req ProfileRequest) (Profile, error) {
	normalized := ProfileRequest{
		Skills:    uniqueTrimmed(req.Skills),
		Interests: uniqueTrimmed(req.Interests),
		Education: Education(strings.TrimSpace(string(req.Education))),
		Goal:      Goal(strings.TrimSpace(string(req.Goal))),
	}

	if err := validate.Struct(normalized); err != nil {
		return Profile{}, toValidationError(err)
	}

	return Profile{
		skills:    normalized.Skills,
		interests: normalized.Interests,
		education: normalized.Education,
		goal:      normalized.Goal,
	}, nil
}

// MustProfile is like NewProfile but panics on invalid input.
// Intended for tests and static fixtures.
func MustProfile(req ProfileRequest) Profile {
	p, err := NewProfile(req)
	if err != nil {
		panic(err)
	}
	return p
}

// Skills returns the skills in submission order.
func (p Profile) Skills() []string {
	return append([]string(nil), p.skills...)
}

// Interests returns the selected interests in submission order.
func (p Profile) Interests() []string {
	return append([]string(nil), p.interests...)
}

// Education returns the education level.
func (p Profile) Education() Education {
	return p.education
}

// Goal returns the current goal.
func (p Profile) Goal() Goal {
	return p.goal
}

// HasInterest reports whether label was selected.
func (p Profile) HasInterest(label string) bool {
	for _, interest := range p.interests {
		if interest == label {
			return true
		}
	}
	return false
}

// AnySkillContains reports whether any skill contains one of the substrings,
// compared case-insensitively.
func (p Profile) AnySkillContains(substrings ...string) bool {
	for _, skill := range p.skills {
		lower := strings.ToLower(skill)
		for _, sub := range substrings {
			if strings.Contains(lower, strings.ToLower(sub)) {
				return true
			}
		}
	}
	return false
}

// Request converts the profile back into its wire shape.
func (p Profile) Request() ProfileRequest {
	return ProfileRequest{
		Skills:    p.Skills(),
		Interests: p.Interests(),
		Education: p.education,
		Goal:      p.goal,
	}
}

// MarshalJSON encodes the profile in the wire shape.
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Request())
}

func uniqueTrimmed(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "profile", Message: "Invalid profile."}
	}

	fe := fieldErrs[0]
	field, _, _ := strings.Cut(fe.Field(), "[")

	switch field {
	case "skills":
		return &ValidationError{Field: field, Message: "Please add at least one skill."}
	case "interests":
		if fe.Tag() == "interest" {
			return &ValidationError{Field: field, Message: fmt.Sprintf("Unknown career interest: %v.", fe.Value())}
		}
		return &ValidationError{Field: field, Message: "Please select at least one career interest."}
	case "education":
		return &ValidationError{Field: field, Message: "Please select your education level."}
	case "goal":
		return &ValidationError{Field: field, Message: "Please select your career goal."}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("failed on %s", fe.Tag())}
	}
}
