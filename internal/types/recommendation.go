package types

// Recommendation is the guidance produced for one profile.
type Recommendation struct {
	JobRoles   []string `json:"jobRoles"`
	ResumeTips []string `json:"resumeTips"`
	NextSteps  []string `json:"nextSteps"`
}

// Empty reports whether the recommendation carries no guidance at all.
func (r *Recommendation) Empty() bool {
	return r == nil || (len(r.JobRoles) == 0 && len(r.ResumeTips) == 0 && len(r.NextSteps) == 0)
}
