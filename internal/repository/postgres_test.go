package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsanano/marketplace/internal/model"
	"fsanano/marketplace/internal/repository"
)

func setupPostgres(t *testing.T) *repository.PostgresRepository {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()))

	repo, err := repository.NewPostgresRepository(context.Background(), pool)
	require.NoError(t, err)
	return repo
}

func TestPostgresRepository_UserCRUD(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	name, role := "Ivan", "customer"
	created, err := repo.CreateUser(ctx, model.User{ID: 1, FirstName: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	got, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Ivan", *got.FirstName)
	assert.Nil(t, got.Age)

	updated, err := repo.UpdateUser(ctx, 1, func(u *model.User) {
		u.ID = 5
		u.FirstName = nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.ID)
	assert.Nil(t, updated.FirstName)
	require.NotNil(t, updated.Role)

	_, err = repo.GetUser(ctx, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.DeleteUser(ctx, 5))
	assert.ErrorIs(t, repo.DeleteUser(ctx, 5), model.ErrNotFound)

	_, err = repo.UpdateUser(ctx, 5, func(*model.User) {})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostgresRepository_OrdersKeepInsertionOrder(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	start, err := model.ParseDate("02/03/2013")
	require.NoError(t, err)

	for _, id := range []int{7, 3} {
		_, err := repo.CreateOrder(ctx, model.Order{ID: id, StartDate: &start})
		require.NoError(t, err)
	}
	name := "replaced"
	_, err = repo.CreateOrder(ctx, model.Order{ID: 7, Name: &name})
	require.NoError(t, err)

	auto, err := repo.CreateOrder(ctx, model.Order{})
	require.NoError(t, err)
	assert.Equal(t, 8, auto.ID)

	list, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 7, list[0].ID)
	assert.Equal(t, "replaced", *list[0].Name)
	assert.Nil(t, list[0].StartDate)
	require.NotNil(t, list[1].StartDate)
	assert.Equal(t, "2013-02-03", list[1].StartDate.String())
	assert.Equal(t, 8, list[2].ID)
}

func TestPostgresRepository_Offers(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	orderID := 42
	_, err := repo.CreateOffer(ctx, model.Offer{ID: 1, OrderID: &orderID})
	require.NoError(t, err)
	_, err = repo.CreateOffer(ctx, model.Offer{ID: 2})
	require.NoError(t, err)

	_, err = repo.UpdateOffer(ctx, 1, func(o *model.Offer) { o.ID = 2 })
	require.NoError(t, err)

	list, err := repo.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].OrderID)
	assert.Equal(t, 42, *list[0].OrderID)
}

func TestPostgresRepository_LargeIDs(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	const bigID = 3000000000

	_, err := repo.GetUser(ctx, bigID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteOrder(ctx, bigID), model.ErrNotFound)

	price := 5000000000
	created, err := repo.CreateOrder(ctx, model.Order{ID: bigID, Price: &price, CustomerID: &price})
	require.NoError(t, err)
	assert.Equal(t, bigID, created.ID)

	got, err := repo.GetOrder(ctx, bigID)
	require.NoError(t, err)
	require.NotNil(t, got.Price)
	assert.Equal(t, price, *got.Price)

	next, err := repo.CreateOrder(ctx, model.Order{})
	require.NoError(t, err)
	assert.Equal(t, bigID+1, next.ID)
}
