package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stepwise/pkg/adapters/file"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunProgressStoreContract(t, store)
}

func TestFileStore_ArrayLayout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	p := domain.NewProgress()
	p.Completed.Add(206)
	p.Completed.Add(1)
	require.NoError(t, store.Save(ctx, "alice", p))

	raw, err := os.ReadFile(filepath.Join(dir, "alice.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"completedProblems": [`)
	assert.Contains(t, string(raw), `"favoriteProblems": []`)

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_PartialRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.json"), []byte(`{"completedProblems":[3,1]}`), 0644))

	loaded, err := file.New(dir).Load(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, loaded.Completed.Slice())
	assert.NotNil(t, loaded.Favorite)
	assert.Equal(t, domain.DefaultSettings(), loaded.Settings)
}

func TestFileStore_InvalidProfile(t *testing.T) {
	store := file.New(t.TempDir())
	for _, name := range []string{"", "../escape", `a\b`, ".."} {
		err := store.Save(context.Background(), name, domain.NewProgress())
		assert.ErrorIs(t, err, file.ErrInvalidProfile, name)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	profiles, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
