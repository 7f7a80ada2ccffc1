package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonKoogler/zcommit/internal/commit"
	"github.com/jasonKoogler/zcommit/internal/config"
)

func withAppContext(t *testing.T) {
	t.Helper()
	ctx, err := config.InitAppContext(t.TempDir())
	require.NoError(t, err)
	prev := appContext
	appContext = ctx
	t.Cleanup(func() { appContext = prev })
}

func TestStatusFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generating.pid")

	require.NoError(t, writeStatusFile(path, 4242))
	pid, err := readStatusFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)
}

func TestCorruptStatusFileIsRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generating.pid")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	_, err := readStatusFile(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStatusObserverTracksGeneration(t *testing.T) {
	withAppContext(t)
	path := appContext.StatusFile()
	observe := statusObserver(path)

	observe(commit.AwaitingDiff)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	observe(commit.Generating)
	pid, err := readStatusFile(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	observe(commit.Completed)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStopWithoutGeneration(t *testing.T) {
	withAppContext(t)

	var out bytes.Buffer
	stopCmd.SetOut(&out)
	t.Cleanup(func() { stopCmd.SetOut(nil) })

	require.NoError(t, runStop(stopCmd, nil))
	assert.Equal(t, "Nothing is being generated.\n", out.String())
}

func TestHookSkipsSourcesWithMessage(t *testing.T) {
	withAppContext(t)

	for _, source := range []string{"message", "merge", "squash", "commit"} {
		msgFile := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
		require.NoError(t, os.WriteFile(msgFile, []byte("keep me\n"), 0644))

		require.NoError(t, runHook(hookCmd, []string{msgFile, source}))

		data, err := os.ReadFile(msgFile)
		require.NoError(t, err)
		assert.Equal(t, "keep me\n", string(data), source)
	}
	assert.False(t, skipSources["template"])
}

func TestAPIKeyFlagIsNotSaved(t *testing.T) {
	withAppContext(t)
	t.Setenv(config.ZAIAPIKeyEnv, "")

	prev := apiKey
	apiKey = "sk-flag-456"
	t.Cleanup(func() { apiKey = prev })

	require.NoError(t, loadConfig(generateCmd, nil))
	t.Cleanup(func() { appContext.Close() })

	key, err := appContext.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-flag-456", key)

	require.NoError(t, appContext.ConfigManager.Save())
	data, err := os.ReadFile(appContext.ConfigManager.ConfigFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-flag-456")
}
