package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	t.Run("console level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: "warn", Console: &buf}))

		Component("test").Infof("hidden %d", 1)
		Component("test").Warnf("shown %d", 2)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown 2")
		assert.Equal(t, "", GetCurrentLogFile())
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: "loud", Console: &buf}))
		assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	})

	t.Run("file output", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "alpaca.log")
		require.NoError(t, Init(Config{Level: "debug", OutputFile: path, MaxSize: 1, Console: &buf}))

		Component("test").Debug("to file")

		assert.Equal(t, path, GetCurrentLogFile())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "component=test")
	})
}

func TestWithFieldBeforeInit(t *testing.T) {
	Logger = nil
	entry := WithField("k", "v")
	require.NotNil(t, entry)
	assert.Equal(t, "v", entry.Data["k"])
	assert.Same(t, logrus.StandardLogger(), entry.Logger)
}

func TestInitConcurrentWithComponents(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, Init(Config{Level: "info", Console: io.Discard}))
		}()
		go func() {
			defer wg.Done()
			assert.NotNil(t, Component("worker"))
		}()
	}
	wg.Wait()
	assert.NotNil(t, Logger)
}
