package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunRunStoreContract(t, store)
}

func TestMemoryStore_ListOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, &domain.Run{ID: "late", CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "early", CreatedAt: now}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, ids)
}
