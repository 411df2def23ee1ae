package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsanano/marketplace/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestMemoryRepository_UserCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	u, err := repo.CreateUser(ctx, model.User{ID: 1, FirstName: strPtr("Ivan")})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	got, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", *got.FirstName)

	updated, err := repo.UpdateUser(ctx, 1, func(u *model.User) { u.FirstName = strPtr("Petr") })
	require.NoError(t, err)
	assert.Equal(t, "Petr", *updated.FirstName)

	list, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Petr", *list[0].FirstName)

	require.NoError(t, repo.DeleteUser(ctx, 1))
	_, err = repo.GetUser(ctx, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteUser(ctx, 1), model.ErrNotFound)
}

func TestMemoryRepository_InsertionOrderAndOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, id := range []int{5, 2, 9} {
		_, err := repo.CreateOrder(ctx, model.Order{ID: id, Name: strPtr("first")})
		require.NoError(t, err)
	}
	_, err := repo.CreateOrder(ctx, model.Order{ID: 2, Name: strPtr("second")})
	require.NoError(t, err)

	list, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{5, 2, 9}, []int{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "second", *list[1].Name)
}

func TestMemoryRepository_AssignsID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first, err := repo.CreateOffer(ctx, model.Offer{OrderID: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	_, err = repo.CreateOffer(ctx, model.Offer{ID: 40})
	require.NoError(t, err)

	next, err := repo.CreateOffer(ctx, model.Offer{})
	require.NoError(t, err)
	assert.Equal(t, 41, next.ID)
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	called := false
	_, err := repo.UpdateOffer(ctx, 3, func(*model.Offer) { called = true })
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, called)

	list, err := repo.ListOffers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryRepository_UpdateMovesID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, _ = repo.CreateOffer(ctx, model.Offer{ID: 1, OrderID: intPtr(10)})
	_, _ = repo.CreateOffer(ctx, model.Offer{ID: 2, OrderID: intPtr(20)})

	_, err := repo.UpdateOffer(ctx, 1, func(o *model.Offer) { o.ID = 2 })
	require.NoError(t, err)

	list, err := repo.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)
	assert.Equal(t, 10, *list[0].OrderID)

	_, err = repo.GetOffer(ctx, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.CreateUser(ctx, model.User{})
		}()
	}
	wg.Wait()

	list, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)

	seen := make(map[int]bool)
	for _, u := range list {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}
