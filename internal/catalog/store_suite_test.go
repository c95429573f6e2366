package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telugudb/pkg/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// storeFactory returns an empty store whose clock is driven by the
// returned fakeClock.
type storeFactory func(t *testing.T) (Store, *fakeClock)

// runStoreSuite holds both backends to the same contract.
func runStoreSuite(t *testing.T, newStore storeFactory) {
	t.Run("CreateThenGetRoundTrips", func(t *testing.T) {
		store, clock := newStore(t)
		ctx := context.Background()

		in := movieFixture("Pushpa", "Telugu")
		require.NoError(t, store.Create(ctx, in))
		require.NotEmpty(t, in.ID)
		assert.True(t, in.CreatedAt.Equal(clock.Now().UTC().Truncate(time.Millisecond)))
		assert.True(t, in.CreatedAt.Equal(in.UpdatedAt))

		got, err := store.Get(ctx, in.ID)
		require.NoError(t, err)
		assertSameDoc(t, in, got)
	})

	t.Run("CreateAssignsDistinctIDs", func(t *testing.T) {
		store, _ := newStore(t)
		ctx := context.Background()

		a := movieFixture("A", "Telugu")
		b := movieFixture("B", "Telugu")
		require.NoError(t, store.Create(ctx, a))
		require.NoError(t, store.Create(ctx, b))
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("GetUnknownIsNotFound", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.Get(context.Background(), "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateMergesPatchAndAdvancesUpdatedAt", func(t *testing.T) {
		store, _ := newStore(t)
		ctx := context.Background()

		series := seriesFixture("Farzi", 3, 5)
		require.NoError(t, store.Create(ctx, series))

		// Same clock reading: updatedAt must still move forward.
		updated, err := store.Update(ctx, series.ID, func(c *models.Content) error {
			return ApplyPatch(c, models.ContentPatch{Rating: models.RatingOf(7.5)})
		})
		require.NoError(t, err)

		require.NotNil(t, updated.Rating)
		assert.Equal(t, 7.5, *updated.Rating)
		assert.Equal(t, series.ID, updated.ID)
		assert.Equal(t, "Farzi", updated.Title)
		assert.True(t, updated.CreatedAt.Equal(series.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(series.UpdatedAt))

		got, err := store.Get(ctx, series.ID)
		require.NoError(t, err)
		require.Len(t, got.Seasons, 2)
		assert.Len(t, got.Seasons[0].Episodes, 3)
		assert.Len(t, got.Seasons[1].Episodes, 5)
		assert.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))
	})

	t.Run("UpdateUsesClockWhenItMoves", func(t *testing.T) {
		store, clock := newStore(t)
		ctx := context.Background()

		m := movieFixture("Salaar", "Telugu")
		require.NoError(t, store.Create(ctx, m))

		clock.Advance(time.Hour)
		updated, err := store.Update(ctx, m.ID, func(c *models.Content) error {
			return ApplyPatch(c, models.ContentPatch{Category: ptr(models.CategoryTrending)})
		})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.Equal(clock.Now().UTC().Truncate(time.Millisecond)))
		assert.Equal(t, models.CategoryTrending, updated.Category)
	})

	t.Run("RejectedUpdateLeavesDocumentUnchanged", func(t *testing.T) {
		store, _ := newStore(t)
		ctx := context.Background()

		m := movieFixture("Devara", "Telugu")
		require.NoError(t, store.Create(ctx, m))

		_, err := store.Update(ctx, m.ID, func(c *models.Content) error {
			return ApplyPatch(c, models.ContentPatch{Title: ptr("   ")})
		})
		require.Error(t, err)
		assert.True(t, IsValidation(err))

		got, err := store.Get(ctx, m.ID)
		require.NoError(t, err)
		assertSameDoc(t, m, got)
	})

	t.Run("ConcurrentUpdatesKeepEveryPatch", func(t *testing.T) {
		store, _ := newStore(t)
		ctx := context.Background()

		m := movieFixture("Pushpa 2", "Telugu")
		require.NoError(t, store.Create(ctx, m))

		patches := []models.ContentPatch{
			{Description: ptr("The rule")},
			{Year: ptr("2024")},
			{Quality: ptr("4K")},
			{Category: ptr(models.CategoryTrending)},
			{Rating: models.RatingOf(8.4)},
		}

		var wg sync.WaitGroup
		errs := make(chan error, 2*len(patches))
		stamps := make(chan time.Time, len(patches))
		for _, p := range patches {
			wg.Add(2)
			go func(p models.ContentPatch) {
				defer wg.Done()
				updated, err := store.Update(ctx, m.ID, func(c *models.Content) error {
					return ApplyPatch(c, p)
				})
				if err != nil {
					errs <- err
					return
				}
				stamps <- updated.UpdatedAt
			}(p)
			go func() {
				defer wg.Done()
				items, err := store.List(ctx, Filter{})
				if err != nil {
					errs <- err
					return
				}
				if len(items) != 1 || items[0].Title != "Pushpa 2" {
					errs <- fmt.Errorf("list saw %d items", len(items))
				}
			}()
		}
		wg.Wait()
		close(errs)
		close(stamps)

		for err := range errs {
			assert.NoError(t, err)
		}

		seen := make(map[int64]bool)
		latest := m.UpdatedAt
		for ts := range stamps {
			assert.True(t, ts.After(m.UpdatedAt))
			assert.False(t, seen[ts.UnixMilli()], "updatedAt %s handed out twice", ts)
			seen[ts.UnixMilli()] = true
			if ts.After(latest) {
				latest = ts
			}
		}
		assert.Len(t, seen, len(patches))

		got, err := store.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "The rule", got.Description)
		assert.Equal(t, "2024", got.Year)
		assert.Equal(t, "4K", got.Quality)
		assert.Equal(t, models.CategoryTrending, got.Category)
		require.NotNil(t, got.Rating)
		assert.Equal(t, 8.4, *got.Rating)
		assert.True(t, got.UpdatedAt.Equal(latest))
	})

	t.Run("ConcurrentDeleteAndUpdate", func(t *testing.T) {
		store, _ := newStore(t)
		ctx := context.Background()

		m := movieFixture("Game Changer", "Telugu")
		require.NoError(t, store.Create(ctx, m))

		var wg sync.WaitGroup
		var updateErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updateErr = store.Update(ctx, m.ID, func(c *models.Content) error {
				return ApplyPatch(c, models.ContentPatch{Year: ptr("2025")})
			})
		}()
		go func() {
			defer wg.Done()
			deleteErr = store.Delete(ctx, m.ID)
		}()
		wg.Wait()

		require.NoError(t, deleteErr)
		if updateErr != nil {
			assert.ErrorIs(t, updateErr, ErrNotFound)
		}
		_, err := store.Get(ctx, m.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateUnknownIsNotFound", func(t *testing.T) {
		store, _ := newStore(t)

		called := false
		_, err := store.Update(context.Background(), "does-not-exist", func(*models.Content) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, called)
	})

	t.Run("DeleteIsNotIdempotent", func(t *testing.T) {
		store, _ := newStore(t)
		ctx := context.Background()

		m := movieFixture("Kalki", "Telugu")
		require.NoError(t, store.Create(ctx, m))

		require.NoError(t, store.Delete(ctx, m.ID))
		assert.ErrorIs(t, store.Delete(ctx, m.ID), ErrNotFound)

		_, err := store.Get(ctx, m.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListFiltersAndKeepsInsertionOrder", func(t *testing.T) {
		store, clock := newStore(t)
		ctx := context.Background()

		teluguMovie := movieFixture("RRR", "Telugu")
		hindiMovie := movieFixture("Jawan", "Hindi")
		hindiMovie.Tags = []string{"Thriller"}
		teluguSeries := seriesFixture("Vikatakavi", 4)
		trending := movieFixture("Hanu-Man", "Telugu")
		trending.Category = models.CategoryTrending

		for _, c := range []*models.Content{teluguMovie, hindiMovie, teluguSeries, trending} {
			require.NoError(t, store.Create(ctx, c))
			clock.Advance(time.Second)
		}

		all, err := store.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"RRR", "Jawan", "Vikatakavi", "Hanu-Man"}, titles(all))

		movies, err := store.List(ctx, Filter{Type: models.ContentTypeMovie, Language: "Telugu"})
		require.NoError(t, err)
		assert.Equal(t, []string{"RRR", "Hanu-Man"}, titles(movies))

		series, err := store.List(ctx, Filter{Type: models.ContentTypeSeries})
		require.NoError(t, err)
		assert.Equal(t, []string{"Vikatakavi"}, titles(series))

		trend, err := store.List(ctx, Filter{Category: models.CategoryTrending})
		require.NoError(t, err)
		assert.Equal(t, []string{"Hanu-Man"}, titles(trend))

		byTag, err := store.List(ctx, Filter{Search: "thrill"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Jawan"}, titles(byTag))

		byTitle, err := store.List(ctx, Filter{Search: "rrr"})
		require.NoError(t, err)
		assert.Equal(t, []string{"RRR"}, titles(byTitle))

		unknown, err := store.List(ctx, Filter{Type: "documentary"})
		require.NoError(t, err)
		assert.Empty(t, unknown)
	})

	t.Run("ListEmptyStore", func(t *testing.T) {
		store, _ := newStore(t)

		items, err := store.List(context.Background(), Filter{})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("Ping", func(t *testing.T) {
		store, _ := newStore(t)
		assert.NoError(t, store.Ping(context.Background()))
	})
}

// assertSameDoc compares two documents, treating timestamps by instant
// and nil and empty season lists as equal.
func assertSameDoc(t *testing.T, want, got *models.Content) {
	t.Helper()
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt %v != %v", want.UpdatedAt, got.UpdatedAt)

	w, g := want.Clone(), got.Clone()
	w.CreatedAt, w.UpdatedAt = time.Time{}, time.Time{}
	g.CreatedAt, g.UpdatedAt = time.Time{}, time.Time{}
	if len(w.Seasons) == 0 {
		w.Seasons = nil
	}
	if len(g.Seasons) == 0 {
		g.Seasons = nil
	}
	assert.Equal(t, w, g)
}
