package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/talent-console/internal/config"
	"github.com/jonathan/talent-console/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fakeAPI serves the screening endpoints from memory.
type fakeAPI struct {
	server *httptest.Server

	mu        sync.Mutex
	jobs      []types.Job
	rosters   map[int64][]types.Candidate
	failIDs   map[int64]bool
	evaluated []url.Values
	emails    []url.Values
	newHires  map[int64][]types.Candidate
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		jobs: []types.Job{
			{ID: 7, Title: "Backend Engineer", Skills: []string{"Go", "PostgreSQL"}, ExperienceLevel: "3+ Years"},
			{ID: 8, Title: "Data Analyst"},
		},
		rosters: map[int64][]types.Candidate{
			7: {
				{ID: 1, Name: "Ann Lee", Email: "ann@example.com", Score: 72, ExperienceLevel: types.ExperienceJunior},
				{ID: 2, Name: "Bob Roy", Email: "bob@example.com", Score: 91, ExperienceLevel: types.ExperienceSeasoned, Shortlisted: true},
				{ID: 3, Name: "Cat Diaz", Email: "cat@example.com", Score: 35, ExperienceLevel: types.ExperienceFresher},
			},
		},
		failIDs:  map[int64]bool{},
		newHires: map[int64][]types.Candidate{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	path := r.URL.Path
	switch {
	case path == "/jobs/list/":
		writeJSON(w, map[string]any{"jobs": f.jobs})
	case path == "/jobs/stats/":
		shortlisted, total := 0, 0
		for _, roster := range f.rosters {
			total += len(roster)
			for _, c := range roster {
				if c.Shortlisted {
					shortlisted++
				}
			}
		}
		writeJSON(w, types.Stats{Jobs: len(f.jobs), Candidates: total, Shortlisted: shortlisted})
	case strings.HasPrefix(path, "/candidates/job/"):
		id := trailingID(path)
		writeJSON(w, map[string]any{"candidates": f.rosters[id]})
	case strings.HasPrefix(path, "/candidates/shortlist/"):
		id := trailingID(path)
		if f.failIDs[id] {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "database locked"}`))
			return
		}
		var body map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&body)
		for job, roster := range f.rosters {
			for i := range roster {
				if roster[i].ID == id {
					f.rosters[job][i].Shortlisted = body["shortlisted"]
				}
			}
		}
		writeJSON(w, map[string]any{"success": true, "shortlisted": body["shortlisted"]})
	case path == "/jobs/chat/":
		_ = r.ParseMultipartForm(1 << 20)
		f.evaluated = append(f.evaluated, r.MultipartForm.Value)
		var results []map[string]any
		for _, fh := range r.MultipartForm.File["resume"] {
			if strings.HasPrefix(fh.Filename, "broken") {
				results = append(results, map[string]any{"filename": fh.Filename, "error": "AI service error"})
				continue
			}
			results = append(results, map[string]any{"filename": fh.Filename, "score": 88, "name": "New Hire"})
		}
		if job, err := strconv.ParseInt(r.FormValue("job_id"), 10, 64); err == nil {
			f.rosters[job] = append(f.rosters[job], f.newHires[job]...)
		}
		if len(results) == 0 {
			writeJSON(w, map[string]any{"reply": "Hello! Upload resumes to get started."})
			return
		}
		writeJSON(w, map[string]any{"reply": fmt.Sprintf("Processed %d resume(s).", len(results)), "results": results})
	case path == "/candidates/send-email/":
		_ = r.ParseMultipartForm(1 << 20)
		f.emails = append(f.emails, r.MultipartForm.Value)
		writeJSON(w, map[string]any{"success": true})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "not found"}`))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func trailingID(path string) int64 {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	id, _ := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	return id
}

func (f *fakeAPI) shortlisted(job int64) map[int64]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, c := range f.rosters[job] {
		out[c.ID] = c.Shortlisted
	}
	return out
}

// resetFlags restores every flag to its default so commands can run more
// than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command in-process against api.
func runCLI(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvBaseURL, api.server.URL)
	t.Setenv(config.EnvToken, "test-token")
	t.Setenv(config.EnvTimeout, "")
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvInboxDir, "")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
