package store

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "features"))
	require.NoError(t, err)
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, s.Dir())
	assert.Equal(t, filepath.Join(dir, MemoryFile), s.Memory.Path())
	assert.Equal(t, HistoryFile, s.History.Name())
}

func TestOpenFailsWhenDirIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestReadAllMissingFileIsEmpty(t *testing.T) {
	s := openTemp(t)

	content, err := s.History.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, content)

	_, statErr := os.Stat(s.History.Path())
	assert.True(t, os.IsNotExist(statErr), "reading must not create the file")
}

func TestAppendLineKeepsInsertionOrder(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Memory.AppendLine("buy milk"))
	require.NoError(t, s.Memory.AppendLine("call mom\n"))
	require.NoError(t, s.Memory.AppendLine("buy milk"))

	content, err := s.Memory.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "buy milk\ncall mom\nbuy milk\n", content)
}

func TestOverwriteReplacesContent(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Personality.Overwrite("friendly and concise"))
	require.NoError(t, s.Personality.Overwrite("terse"))

	content, err := s.Personality.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "terse", content)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestTruncateIsIdempotent(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.History.Append("User: hi\n\n#AI: hello\n\n"))

	for i := 0; i < 2; i++ {
		require.NoError(t, s.History.Truncate())
		content, err := s.History.ReadAll()
		require.NoError(t, err)
		assert.Empty(t, content)
	}
}

func TestClearAllKeepsPersonality(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Memory.AppendLine("note"))
	require.NoError(t, s.History.Append("User: a\n\n#AI: b\n\n"))
	require.NoError(t, s.Personality.Overwrite("terse"))

	require.NoError(t, s.ClearAll())

	mem, _ := s.Memory.ReadAll()
	hist, _ := s.History.ReadAll()
	pers, _ := s.Personality.ReadAll()
	assert.Empty(t, mem)
	assert.Empty(t, hist)
	assert.Equal(t, "terse", pers)
}

func TestReadTail(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Memory.Append("héllo wörld"))

	tail, err := s.Memory.ReadTail(5)
	require.NoError(t, err)
	assert.Equal(t, "wörld", tail)

	all, err := s.Memory.ReadTail(100)
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", all)

	unbounded, err := s.Memory.ReadTail(0)
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", unbounded)
}

func TestInvalidUTF8IsRepaired(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Memory.AppendLine("bad \xff byte"))

	content, err := s.Memory.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "bad � byte\n", content)
}

func TestWriteFailureIsFileAccessError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	s := openTemp(t)
	require.NoError(t, os.Chmod(s.Dir(), 0500))
	t.Cleanup(func() { _ = os.Chmod(s.Dir(), 0755) })

	err := s.Memory.AppendLine("cannot land")
	require.Error(t, err)
	assert.True(t, apperrors.IsFileAccess(err))
	assert.Equal(t, "cannot write memory.txt: permission denied", apperrors.GetUserMessage(err))

	err = s.Personality.Overwrite("x")
	require.Error(t, err)
	assert.True(t, apperrors.IsFileAccess(err))
}

func TestClearAllLeavesBothFilesOnFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	s := openTemp(t)
	require.NoError(t, s.History.Append("User: a\n\n#AI: b\n\n"))
	require.NoError(t, s.Memory.AppendLine("note"))
	require.NoError(t, os.Chmod(s.Memory.Path(), 0400))
	t.Cleanup(func() { _ = os.Chmod(s.Memory.Path(), 0644) })

	err := s.ClearAll()
	require.Error(t, err)
	assert.True(t, apperrors.IsFileAccess(err))
	assert.Equal(t, "cannot clear memory.txt: permission denied", apperrors.GetUserMessage(err))

	hist, err := s.History.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "User: a\n\n#AI: b\n\n", hist)
	mem, err := s.Memory.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "note\n", mem)
}
