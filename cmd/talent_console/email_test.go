package main

import (
	"testing"

	"github.com/jonathan/talent-console/internal/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailCommand_SendsToShortlisted(t *testing.T) {
	api := newFakeAPI(t)
	paths := writeResumes(t, "jd.pdf")

	out, err := runCLI(t, api, "email", "-j", "7",
		"--subject", "Interview", "-m", "Please pick a slot.", "--attach", paths[0])
	require.NoError(t, err)
	assert.Contains(t, out, "To:      bob@example.com")
	assert.Contains(t, out, "Attach:  jd.pdf")
	assert.Contains(t, out, "Email sent to 1 recipient(s)")

	require.Len(t, api.emails, 1)
	assert.Equal(t, []string{"bob@example.com"}, api.emails[0]["to"])
	assert.Equal(t, []string{"Interview"}, api.emails[0]["subject"])
}

func TestEmailCommand_DryRun(t *testing.T) {
	api := newFakeAPI(t)

	out, err := runCLI(t, api, "email", "-j", "7", "--subject", "Hi", "-m", "Body", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "EMAIL DRAFT")
	assert.Empty(t, api.emails)

	_, err = runCLI(t, api, "email", "-j", "7", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Subject")
}

func TestEmailCommand_NoShortlistedCandidates(t *testing.T) {
	api := newFakeAPI(t)

	_, err := runCLI(t, api, "email", "-j", "8", "--subject", "Hi", "-m", "Body")
	require.ErrorIs(t, err, compose.ErrNoRecipients)
	assert.Empty(t, api.emails)
}

func TestEmailCommand_InvalidOverride(t *testing.T) {
	api := newFakeAPI(t)

	_, err := runCLI(t, api, "email", "-j", "7", "--to", "bob@example.com, nope", "--subject", "Hi", "-m", "Body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "To")
	assert.Empty(t, api.emails)
}
