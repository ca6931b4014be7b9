package types

// Experience levels offered by the roster filter.
const (
	ExperienceFresher  = "Fresher"
	ExperienceJunior   = "1-2 Years"
	ExperienceSeasoned = "3+ Years"
)

// FilterState narrows the roster view. Zero values mean "no filter".
type FilterState struct {
	SearchQuery      string
	ExperienceFilter string
	MinScore         *int
}

// WithMinScore returns a copy of f with the minimum score set.
func (f FilterState) WithMinScore(score int) FilterState {
	f.MinScore = &score
	return f
}
