package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteToFile(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(Config{Dir: dir, File: "stats.txt"})
	require.NoError(t, err)

	require.NoError(t, w.Write("report one"))
	require.NoError(t, w.Write("report two"))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(filepath.Join(dir, "stats.txt"))
	require.NoError(t, err)
	require.Equal(t, "report one\nreport two\n", string(b))
}

func TestWriteAppends(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		w, err := Open(Config{Dir: dir, File: "stats.txt"})
		require.NoError(t, err)
		require.NoError(t, w.Write("r"))
		require.NoError(t, w.Close())
	}

	b, err := os.ReadFile(filepath.Join(dir, "stats.txt"))
	require.NoError(t, err)
	require.Equal(t, "r\nr\n", string(b))
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open(Config{Dir: filepath.Join(t.TempDir(), "missing"), File: "stats.txt"})
	require.Error(t, err)
}

func TestOpenDirIsFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))
	_, err := Open(Config{Dir: f, File: "stats.txt"})
	require.Error(t, err)
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(Config{Dir: dir, File: "stats.txt", RotateInterval: 50 * time.Millisecond})
	require.NoError(t, err)

	require.NoError(t, w.Write("first"))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, w.Write("second")) // rotates "first" out first
	require.NoError(t, w.Write("third"))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(filepath.Join(dir, "stats.1.txt"))
	require.NoError(t, err)
	require.Equal(t, "first\n", string(b))

	b, err = os.ReadFile(filepath.Join(dir, "stats.txt"))
	require.NoError(t, err)
	require.Equal(t, "second\nthird\n", string(b))
}
