package model

// ExperienceLevel is the coarse tier a profile's years of experience map to.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

// Profile describes what the user is looking for. Read-only input to the
// scorer and aggregator; owned by the caller.
type Profile struct {
	Skills           []string
	DesiredRoles     []string
	DesiredLocations []string
	SalaryMin        *int64   // desired salary floor, nil if unspecified
	WorkType         WorkType // preferred work type, WorkUnknown if none
	ExperienceYears  int
}

// ExperienceLevel maps years of experience to a tier:
// entry <2y, mid <5y, senior <10y, lead ≥10y.
func (p Profile) ExperienceLevel() ExperienceLevel {
	switch {
	case p.ExperienceYears < 2:
		return ExperienceEntry
	case p.ExperienceYears < 5:
		return ExperienceMid
	case p.ExperienceYears < 10:
		return ExperienceSenior
	default:
		return ExperienceLead
	}
}
