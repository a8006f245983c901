package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProgressStoreContract runs a suite of tests to verify that a ProgressStore
// implementation adheres to the interface contract.
func RunProgressStoreContract(t *testing.T, store ProgressStore) {
	ctx := context.Background()
	profile := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		p := domain.NewProgress()
		p.Completed.Add(1)
		p.Completed.Add(206)
		p.InProgress.Add(167)
		p.Favorite.Add(0)
		p.Settings.DefaultSpeed = 1.5
		p.Settings.AutoPlay = true
		p.Settings.Theme = domain.ThemeDark

		require.NoError(t, store.Save(ctx, profile, p), "Save should not return error")

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, p.Equal(loaded), "loaded progress should equal saved progress")
		assert.Equal(t, []int{1, 206}, loaded.Completed.Slice())
		assert.True(t, loaded.Favorite.Has(0))
		assert.Equal(t, domain.ThemeDark, loaded.Settings.Theme)
	})

	t.Run("Empty sets survive", func(t *testing.T) {
		id := profile + "-empty"
		require.NoError(t, store.Save(ctx, id, domain.NewProgress()))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, loaded.Completed)
		assert.NotNil(t, loaded.InProgress)
		assert.NotNil(t, loaded.Favorite)
		assert.Equal(t, domain.DefaultSettings(), loaded.Settings)
	})

	t.Run("Saved copy is isolated", func(t *testing.T) {
		id := profile + "-isolated"
		p := domain.NewProgress()
		p.Completed.Add(3)
		require.NoError(t, store.Save(ctx, id, p))
		defer func() { _ = store.Delete(ctx, id) }()

		p.Completed.Add(4)
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.False(t, loaded.Completed.Has(4))

		loaded.Completed.Add(5)
		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.False(t, again.Completed.Has(5))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+profile)
		assert.ErrorIs(t, err, domain.ErrProgressNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profile, domain.NewProgress()))
		require.NoError(t, store.Delete(ctx, profile), "Delete should not return error")

		_, err := store.Load(ctx, profile)
		assert.ErrorIs(t, err, domain.ErrProgressNotFound, "Load after Delete should return ErrProgressNotFound")

		assert.NoError(t, store.Delete(ctx, profile), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := profile + "-1"
		id2 := profile + "-2"
		_ = store.Save(ctx, id1, domain.NewProgress())
		_ = store.Save(ctx, id2, domain.NewProgress())
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		profiles, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, profiles, id1)
		assert.Contains(t, profiles, id2)
	})
}
