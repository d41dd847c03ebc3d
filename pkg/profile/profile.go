package profile

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

func (e Experience) IsValid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// Profile holds training-related data about a user. A profile row must exist
// before any mesocycle can be stored for that user.
type Profile struct {
	UserId       int
	DisplayName  string
	BodyweightKg *float64
	Experience   Experience
}
