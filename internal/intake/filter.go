// Package intake validates resume files and batches them for evaluation.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/talent-console/internal/types"
)

// AllowedExtensions lists the resume formats the evaluator can read.
var AllowedExtensions = []string{".pdf", ".txt"}

// Partition splits files into accepted and rejected by extension,
// case-insensitively, preserving relative order in each. Warning is non-empty
// (one aggregate message) when anything was rejected.
type Partition struct {
	Accepted []types.FilePayload
	Rejected []types.FilePayload
	Warning  string
}

// Allowed reports whether name carries an allowed resume extension.
func Allowed(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Filter partitions files. It has no side effects.
func Filter(files []types.FilePayload) Partition {
	var p Partition
	for _, f := range files {
		if Allowed(f.Name) {
			p.Accepted = append(p.Accepted, f)
		} else {
			p.Rejected = append(p.Rejected, f)
		}
	}
	if len(p.Rejected) > 0 {
		names := make([]string, 0, len(p.Rejected))
		for _, f := range p.Rejected {
			names = append(names, f.Name)
		}
		p.Warning = fmt.Sprintf("Only PDF or TXT files allowed. Ignored %d file(s): %s",
			len(p.Rejected), strings.Join(names, ", "))
	}
	return p
}

// LoadFiles reads files from disk into payloads. The extension is not
// checked here; run Filter on the result.
func LoadFiles(paths []string) ([]types.FilePayload, error) {
	out := make([]types.FilePayload, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		out = append(out, types.FilePayload{
			Name:    filepath.Base(path),
			Size:    int64(len(content)),
			Content: content,
		})
	}
	return out, nil
}
