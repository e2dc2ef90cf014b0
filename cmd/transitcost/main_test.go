package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = "../../testdata/config.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	e := root.Execute()

	return buf.String(), e
}

func TestRun(t *testing.T) {
	noEnv := filepath.Join(t.TempDir(), "missing.env")

	out, e := execute(t, "run", "--config", sampleConfig, "--env", noEnv)
	require.Nil(t, e)
	assert.Contains(t, out, "NTD 2022 revenue-hour costs")
	assert.Contains(t, out, "national cost per vehicle revenue hour: $171.16")
	assert.Contains(t, out, "Regression")

	_, e = execute(t, "run", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "--env", noEnv)
	assert.NotNil(t, e)

	_, e = execute(t, "run", "extra", "--config", sampleConfig, "--env", noEnv)
	assert.NotNil(t, e)
}

func TestCheck(t *testing.T) {
	out, e := execute(t, "check", "-c", sampleConfig, "--env", filepath.Join(t.TempDir(), "missing.env"))
	require.Nil(t, e)
	assert.Contains(t, out, "service:")
	assert.Contains(t, out, "train_revenue_hours")
}

func TestEnvFile(t *testing.T) {
	const key = "TRANSITCOST_TEST_DSN"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	env := filepath.Join(t.TempDir(), "test.env")
	require.Nil(t, os.WriteFile(env, []byte(key+"=file:ntd.db\n"), 0o600))

	_, e := execute(t, "check", "-c", sampleConfig, "--env", env)
	require.Nil(t, e)
	assert.Equal(t, "file:ntd.db", os.Getenv(key))

	bad := filepath.Join(t.TempDir(), "bad.env")
	require.Nil(t, os.WriteFile(bad, []byte("BAD-KEY=1\n"), 0o600))
	_, e = execute(t, "check", "-c", sampleConfig, "--env", bad)
	assert.NotNil(t, e)
}
