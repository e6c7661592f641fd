package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestLocalStore_SaveAndOpen(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	name, err := s.Save(ctx, "enhanced_resume", []byte("%PDF-1.3 test"))
	require.NoError(t, err)
	assert.Equal(t, "enhanced_resume_1700000000000.pdf", name)

	obj, err := s.Open(ctx, name)
	require.NoError(t, err)
	defer func() { _ = obj.Body.Close() }()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))
	assert.Equal(t, int64(len(data)), obj.Size)
	assert.Equal(t, "application/pdf", obj.ContentType)
}

func TestLocalStore_CollisionAdvancesTimestamp(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "skill_recommendations", []byte("one"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "skill_recommendations", []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, "skill_recommendations_1700000000000.pdf", first)
	assert.Equal(t, "skill_recommendations_1700000000001.pdf", second)

	data, err := os.ReadFile(filepath.Join(s.Dir(), first))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data), "existing artifact must not be overwritten")
}

func TestLocalStore_ConcurrentSavesGetDistinctNames(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	const n = 20
	names := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name, err := s.Save(ctx, "enhanced_resume", []byte{byte(i)})
			assert.NoError(t, err)
			names[i] = name
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, name := range names {
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestLocalStore_NoPartialFilesLeft(t *testing.T) {
	s := newTestLocalStore(t)

	_, err := s.Save(context.Background(), "enhanced_resume", []byte("data"))
	require.NoError(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, ValidName(entries[0].Name()))
}

func TestLocalStore_OpenErrors(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	_, err := s.Open(ctx, "enhanced_resume_1.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"../secret.pdf", "sub/enhanced_resume_1.pdf", "resume.pdf", "enhanced_resume_1.txt", ""} {
		_, err := s.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocalStore_SaveRejectsBadKind(t *testing.T) {
	s := newTestLocalStore(t)

	_, err := s.Save(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestLocalStore_SaveCanceled(t *testing.T) {
	s := newTestLocalStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "enhanced_resume", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalStore_EmptyDir(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Error(t, err)
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "enhanced_resume_42.pdf", ArtifactName("enhanced_resume", 42))
	assert.True(t, ValidName(ArtifactName("enhanced_resume", 42)))
	assert.False(t, ValidName("Enhanced_resume_42.pdf"))
}
