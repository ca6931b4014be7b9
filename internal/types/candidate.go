package types

import (
	"encoding/json"
	"sort"
)

// Candidate is an evaluated resume as returned by the roster endpoint.
// Candidates are created server-side; the console only stores, re-sorts and
// shadows the Shortlisted flag.
type Candidate struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Score           int      `json:"score"` // display-only, not clamped
	ExperienceLevel string   `json:"experience_level"`
	SkillsFound     []string `json:"skills_found"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Education       string   `json:"education,omitempty"`
	ResumeURL       string   `json:"resume_url,omitempty"`
	Shortlisted     bool     `json:"shortlisted"`
}

// UnmarshalJSON accepts both roster shapes served by the backend: one names
// the skills field "skills_found", the other "extracted_skills".
func (c *Candidate) UnmarshalJSON(data []byte) error {
	type alias Candidate
	var raw struct {
		alias
		ExtractedSkills []string `json:"extracted_skills"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Candidate(raw.alias)
	if len(c.SkillsFound) == 0 && len(raw.ExtractedSkills) > 0 {
		c.SkillsFound = raw.ExtractedSkills
	}
	return nil
}

// CandidateList is the response of the roster call.
type CandidateList struct {
	Candidates []Candidate `json:"candidates"`
}

// SortRoster orders candidates by score descending. Equal scores keep the
// server-supplied order.
func SortRoster(roster []Candidate) {
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].Score > roster[j].Score
	})
}

// FindCandidate returns the candidate with the given id, or nil.
func FindCandidate(roster []Candidate, id int64) *Candidate {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i]
		}
	}
	return nil
}
