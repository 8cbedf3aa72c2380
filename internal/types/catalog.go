package types

// Education is the highest education level a user reports on the form.
type Education string

// Education levels offered by the form.
const (
	EducationHighSchool Education = "high-school"
	EducationDiploma    Education = "diploma"
	EducationBTech      Education = "btech"
	EducationMTech      Education = "mtech"
	EducationPhD        Education = "phd"
	EducationOther      Education = "other"
)

// Goal is what the user is currently aiming for.
type Goal string

// Goals offered by the form.
const (
	GoalInternship    Goal = "internship"
	GoalJob           Goal = "job"
	GoalHigherStudies Goal = "higher-studies"
	GoalNotSure       Goal = "not-sure"
)

// Interest labels referenced directly by the recommendation rules.
const (
	InterestArtificialIntelligence = "Artificial Intelligence"
	InterestWebDevelopment         = "Web Development"
	InterestDataScience            = "Data Science"
	InterestCybersecurity          = "Cybersecurity"
)

// InterestCatalog is the fixed list of career interests, in display order.
var InterestCatalog = []string{
	InterestArtificialIntelligence,
	InterestWebDevelopment,
	InterestDataScience,
	InterestCybersecurity,
	"Mobile Development",
	"Cloud Computing",
	"Machine Learning",
	"UI/UX Design",
	"DevOps",
	"Blockchain",
	"Game Development",
	"Digital Marketing",
	"Project Management",
	"Software Testing",
	"Network Administration",
}

// EducationLevels lists every valid Education value, in display order.
var EducationLevels = []Education{
	EducationHighSchool,
	EducationDiploma,
	EducationBTech,
	EducationMTech,
	EducationPhD,
	EducationOther,
}

// Goals lists every valid Goal value, in display order.
var Goals = []Goal{
	GoalInternship,
	GoalJob,
	GoalHigherStudies,
	GoalNotSure,
}

var interestSet = func() map[string]bool {
	set := make(map[string]bool, len(InterestCatalog))
	for _, label := range InterestCatalog {
		set[label] = true
	}
	return set
}()

// IsCatalogInterest reports whether label is one of the catalog interests.
// Matching is exact, as the form only submits catalog labels.
func IsCatalogInterest(label string) bool {
	return interestSet[label]
}

// Catalog is the set of options the form renders.
type Catalog struct {
	Interests       []string    `json:"interests"`
	EducationLevels []Education `json:"educationLevels"`
	Goals           []Goal      `json:"goals"`
}

// DefaultCatalog returns a copy of the form options.
func DefaultCatalog() Catalog {
	return Catalog{
		Interests:       append([]string(nil), InterestCatalog...),
		EducationLevels: append([]Education(nil), EducationLevels...),
		Goals:           append([]Goal(nil), Goals...),
	}
}
