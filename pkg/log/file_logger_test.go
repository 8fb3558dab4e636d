package log

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllEvents(t *testing.T, path string) []Event {
	t.Helper()
	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var events []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, event)
	}
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.blog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	first := testEvent()
	logger.Log(first)
	require.NoError(t, logger.Close())

	// Reopening appends instead of truncating.
	logger, err = NewFileLogger(path)
	require.NoError(t, err)
	second := testEvent()
	second.DeviceID = "dev2"
	logger.Log(second)
	require.NoError(t, logger.Close())

	events := readAllEvents(t, path)
	require.Len(t, events, 2)
	assert.Equal(t, "dev1", events[0].DeviceID)
	assert.Equal(t, "dev2", events[1].DeviceID)
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.blog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	// Logging after Close is a silent no-op.
	logger.Log(testEvent())
	assert.Empty(t, readAllEvents(t, path))
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.blog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Log(testEvent())
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readAllEvents(t, path), 10)
}

func TestReaderFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.blog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	ok := testEvent()
	logger.Log(ok)
	failed := Event{
		Timestamp: time.Now(),
		Method:    "GET",
		URL:       "https://api.switch-bot.com/v1.1/devices",
		Error:     "dial tcp: connection refused",
	}
	logger.Log(failed)
	require.NoError(t, logger.Close())

	reader, err := NewFilteredReader(path, Filter{ErrorsOnly: true})
	require.NoError(t, err)
	defer reader.Close()

	event, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, failed.Error, event.Error)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMultiLogger(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.blog")
	pathB := filepath.Join(dir, "b.blog")
	loggerA, err := NewFileLogger(pathA)
	require.NoError(t, err)
	loggerB, err := NewFileLogger(pathB)
	require.NoError(t, err)

	multi := NewMultiLogger(loggerA, loggerB, NoopLogger{})
	multi.Log(testEvent())
	require.NoError(t, loggerA.Close())
	require.NoError(t, loggerB.Close())

	assert.Len(t, readAllEvents(t, pathA), 1)
	assert.Len(t, readAllEvents(t, pathB), 1)
}
