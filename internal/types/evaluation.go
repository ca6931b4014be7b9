package types

import (
	"encoding/json"
	"fmt"
)

// PerFileResult is the evaluator's verdict for one uploaded file. It is
// either a ResultOK or a ResultError.
type PerFileResult interface {
	File() string
	isPerFileResult()
}

// ResultOK is a successfully scored file. Name, Email and the slices are
// optional and empty when the evaluator did not supply them.
type ResultOK struct {
	Filename    string   `json:"filename"`
	Score       int      `json:"score"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	SkillsFound []string `json:"skills_found,omitempty"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
}

// ResultError is a file the evaluator could not score. It does not abort
// sibling files in the same batch.
type ResultError struct {
	Filename string `json:"filename"`
	Message  string `json:"error"`
}

// File returns the uploaded filename.
func (r ResultOK) File() string { return r.Filename }

// File returns the uploaded filename.
func (r ResultError) File() string { return r.Filename }

func (ResultOK) isPerFileResult()    {}
func (ResultError) isPerFileResult() {}

// EvaluationResponse is the decoded reply of the evaluation endpoint.
// HasResults reports whether a "results" key was present at all.
type EvaluationResponse struct {
	Reply      string
	Results    []PerFileResult
	HasResults bool
}

type rawPerFileResult struct {
	Filename    string   `json:"filename"`
	Error       *string  `json:"error"`
	Score       *int     `json:"score"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	SkillsFound []string `json:"skills_found"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
}

// UnmarshalJSON decodes the loosely shaped wire format into the tagged
// variant once, so nothing downstream checks optional keys.
func (r *EvaluationResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Reply   string              `json:"reply"`
		Results *[]rawPerFileResult `json:"results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Reply = raw.Reply
	r.Results = nil
	r.HasResults = raw.Results != nil
	if raw.Results == nil {
		return nil
	}

	r.Results = make([]PerFileResult, 0, len(*raw.Results))
	for i, item := range *raw.Results {
		switch {
		case item.Error != nil:
			r.Results = append(r.Results, ResultError{Filename: item.Filename, Message: *item.Error})
		case item.Score != nil:
			r.Results = append(r.Results, ResultOK{
				Filename:    item.Filename,
				Score:       *item.Score,
				Name:        item.Name,
				Email:       item.Email,
				SkillsFound: item.SkillsFound,
				Strengths:   item.Strengths,
				Weaknesses:  item.Weaknesses,
			})
		default:
			return fmt.Errorf("result %d (%s): neither score nor error present", i, item.Filename)
		}
	}
	return nil
}

// MarshalJSON writes the wire shape back out; used by the journal.
func (r EvaluationResponse) MarshalJSON() ([]byte, error) {
	out := struct {
		Reply   string `json:"reply,omitempty"`
		Results []any  `json:"results,omitempty"`
	}{Reply: r.Reply}
	for _, res := range r.Results {
		out.Results = append(out.Results, res)
	}
	return json.Marshal(out)
}
