package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/talent-console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRoster() []types.Candidate {
	return []types.Candidate{
		{ID: 1, Name: "Asha Rao", Email: "asha@x.io", Score: 90, SkillsFound: []string{"Go", "SQL"}, ResumeURL: "https://files.example.com/asha.pdf"},
		{ID: 3, Name: "Chen Li", Email: "chen@x.io", Score: 70},
		{ID: 2, Name: "Ben Ode", Email: "ben@y.io", Score: 40},
	}
}

func TestWriteShortlistReport_AddsExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report")

	path, err := WriteShortlistReport(out, types.Job{ID: 7, Title: "Backend"}, sampleRoster(), nil)
	require.NoError(t, err)
	assert.Equal(t, out+".xlsx", path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteShortlistReport_Contents(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	shadow := map[int64]bool{1: true, 2: true}

	path, err := WriteShortlistReport(out, types.Job{ID: 7, Title: "Backend"}, sampleRoster(), shadow)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet, ShortlistedSheet}, f.GetSheetList())

	job, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "#7 Backend", job)

	count, err := f.GetCellValue(SummarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Name", rows[0][2])
	assert.Equal(t, []string{"Asha Rao", "Chen Li", "Ben Ode"}, []string{rows[1][2], rows[2][2], rows[3][2]})
	assert.Equal(t, "Go, SQL", rows[1][6])
	assert.Equal(t, "Yes", rows[1][7])
	assert.Equal(t, "No", rows[2][7])

	ok, link, err := f.GetCellHyperLink(CandidatesSheet, "I2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://files.example.com/asha.pdf", link)

	shortlisted, err := f.GetRows(ShortlistedSheet)
	require.NoError(t, err)
	require.Len(t, shortlisted, 3)
	assert.Equal(t, "Asha Rao", shortlisted[1][2])
	assert.Equal(t, "Ben Ode", shortlisted[2][2])
}

func TestWriteShortlistReport_EmptyRoster(t *testing.T) {
	path, err := WriteShortlistReport(filepath.Join(t.TempDir(), "empty.xlsx"), types.Job{ID: 1}, nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ShortlistedSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBandIndex(t *testing.T) {
	assert.Equal(t, 0, bandIndex(85))
	assert.Equal(t, 1, bandIndex(84))
	assert.Equal(t, 2, bandIndex(40))
	assert.Equal(t, 3, bandIndex(39))
}
