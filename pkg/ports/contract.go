package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newRun := func(id string) *domain.Run {
		return &domain.Run{
			ID:        id,
			Automaton: "contract",
			Input:     "ab1",
			Result: domain.Result{
				Verdict:  domain.Reject,
				Final:    2,
				Consumed: 3,
				Trace: []domain.Step{
					{Position: 0, Symbol: 'a', From: 1, To: domain.To(2), Outcome: domain.OutcomeMoved},
					{Position: 1, Symbol: 'b', From: 2, To: domain.To(2), Outcome: domain.OutcomeMoved},
					{Position: 2, Symbol: '1', From: 2, To: domain.None, Outcome: domain.OutcomeNoTransition},
				},
			},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := newRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.Input, loaded.Input)
		assert.Equal(t, run.Automaton, loaded.Automaton)
		assert.Equal(t, run.Result, loaded.Result)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Isolated From Caller", func(t *testing.T) {
		run := newRun(runID + "-iso")
		require.NoError(t, store.Save(ctx, run))
		defer func() { _ = store.Delete(ctx, run.ID) }()

		run.Result.Trace[0].Symbol = 'z'

		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Symbol('a'), loaded.Result.Trace[0].Symbol, "stored trace must not alias the caller's slice")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newRun(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, newRun(id1))
		_ = store.Save(ctx, newRun(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})

	t.Run("List Oldest First", func(t *testing.T) {
		created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		ids := []string{runID + "-c", runID + "-a", runID + "-b"}
		for i, id := range ids {
			run := newRun(id)
			run.CreatedAt = created.Add(time.Duration(i) * time.Minute)
			require.NoError(t, store.Save(ctx, run))
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)

		var ours []string
		for _, id := range runs {
			for _, want := range ids {
				if id == want {
					ours = append(ours, id)
				}
			}
		}
		assert.Equal(t, ids, ours, "List must order by CreatedAt, not by ID")
	})
}
