// Package types provides type definitions for structured data used throughout the talent console.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Job is a posting owned by the signed-in HR user. The console never mutates it.
type Job struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Skills          []string `json:"skills"`
	SalaryRange     string   `json:"salary_range"`
	ExperienceLevel string   `json:"experience_level"`
	JobType         string   `json:"job_type"`
}

// JobList is the response of the list-jobs call.
type JobList struct {
	Jobs []Job `json:"jobs"`
}

// Stats holds the dashboard counters for the signed-in HR user.
type Stats struct {
	Jobs        int `json:"jobs"`
	Candidates  int `json:"candidates"`
	Shortlisted int `json:"shortlisted"`
}
