package worldlog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLineSortsKeys(t *testing.T) {
	line := formatLine("INVENTORY", map[string]string{
		"owner": "actor-1",
		"item":  "wheat",
		"delta": "3",
	})

	assert.True(t, strings.HasSuffix(line, "|INVENTORY delta=3 item=wheat owner=actor-1\n"))
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}\.\d{3}\|`, line)
}

func TestFormatLineNoFields(t *testing.T) {
	line := formatLine("TICK", nil)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}\.\d{3}\|TICK\n$`, line)
}

func TestLoggerWritesGlobalAndActorStreams(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, 0)
	require.NoError(t, err)

	logger.Event("TICK", map[string]string{"day": "1"})
	logger.ActorEvent("alice", "PLAN", map[string]string{"goal": "eat"})
	al := logger.ForActor("bob")
	al.Event("PLAN", map[string]string{"goal": "sleep"})

	require.NoError(t, logger.Close())

	globalLines := readLines(t, filepath.Join(dir, "global.log"))
	require.Len(t, globalLines, 1)
	assert.Contains(t, globalLines[0], "|TICK day=1")

	aliceLines := readLines(t, filepath.Join(dir, "actor-alice.log"))
	require.Len(t, aliceLines, 1)
	assert.Contains(t, aliceLines[0], "|PLAN goal=eat")

	bobLines := readLines(t, filepath.Join(dir, "actor-bob.log"))
	require.Len(t, bobLines, 1)
	assert.Contains(t, bobLines[0], "|PLAN goal=sleep")
}

func TestLoggerConcurrentWritersSurvive(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, 0)
	require.NoError(t, err)

	const writers = 20
	const perWriter = 25
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				logger.ActorEvent("shared", "EVENT", map[string]string{"n": "x"})
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	lines := readLines(t, filepath.Join(dir, "actor-shared.log"))
	assert.Len(t, lines, writers*perWriter)
}

func TestStreamRotatesPastMaxBytes(t *testing.T) {
	dir := t.TempDir()
	// Each line is 31 bytes ("HH:mm:ss.fff|FILL i=0123456789\n"); force rotation well before
	// any real 75 MiB threshold so the test runs fast.
	logger, err := NewLogger(dir, 64)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		logger.Event("FILL", map[string]string{"i": "0123456789"})
	}
	require.NoError(t, logger.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var rotated int
	var base bool
	for _, e := range entries {
		name := e.Name()
		if name == "global.log" {
			base = true
		} else if strings.HasPrefix(name, "global.log.") {
			rotated++
		}
	}
	assert.True(t, base, "expected an active global.log")
	assert.Greater(t, rotated, 0, "expected at least one rotated backup file")
}

func TestEmitAfterCloseDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, 0)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	assert.NotPanics(t, func() {
		logger.Event("LATE", nil)
	})
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}
