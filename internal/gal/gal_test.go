package gal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func unsetGoogleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_IMPERSONATE_USER"} {
		t.Setenv(key, "placeholder")
		os.Unsetenv(key)
	}
}

func TestCredentialsFromEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := "GOOGLE_APPLICATION_CREDENTIALS=/etc/offboardctl/sa.json\n" +
		"GOOGLE_IMPERSONATE_USER=admin@corp.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	chdir(t, dir)
	unsetGoogleEnv(t)

	creds, err := credentialsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/offboardctl/sa.json", creds.path)
	assert.Equal(t, "admin@corp.example.com", creds.subject)
}

func TestCredentialsFromEnvMissing(t *testing.T) {
	chdir(t, t.TempDir())
	unsetGoogleEnv(t)

	_, err := credentialsFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
}

func TestCredentialsFromEnvMissingSubject(t *testing.T) {
	chdir(t, t.TempDir())
	unsetGoogleEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/offboardctl/sa.json")

	_, err := credentialsFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_IMPERSONATE_USER")
}
