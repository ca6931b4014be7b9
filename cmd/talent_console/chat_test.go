package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCommand_MessageOnly(t *testing.T) {
	api := newFakeAPI(t)

	out, err := runCLI(t, api, "chat", "-m", "hi there")
	require.NoError(t, err)
	assert.Contains(t, out, "you> hi there")
	assert.Contains(t, out, "bot> Hello! Upload resumes to get started.")

	require.Len(t, api.evaluated, 1)
	_, hasJob := api.evaluated[0]["job_id"]
	assert.False(t, hasJob)
}

func TestChatCommand_FilesWithJob(t *testing.T) {
	api := newFakeAPI(t)
	paths := writeResumes(t, "a.pdf", "b.txt")

	args := append([]string{"chat", "-j", "8"}, paths...)
	out, err := runCLI(t, api, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "you> Uploaded: a.pdf, b.txt")
	assert.Contains(t, out, "bot> a.pdf - Score: 88/100")
	assert.Contains(t, out, "bot> b.txt - Score: 88/100")
	assert.Equal(t, []string{"8"}, api.evaluated[0]["job_id"])
}

func TestChatCommand_ServerError(t *testing.T) {
	api := newFakeAPI(t)
	api.server.Close()

	out, err := runCLI(t, api, "chat", "-m", "hello")
	require.Error(t, err)
	assert.Contains(t, out, "bot> Server error. Please try again later.")
}
