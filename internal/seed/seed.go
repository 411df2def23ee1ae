// Package seed fills an empty store from the JSON fixture files at startup.
package seed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"fsanano/marketplace/internal/model"
)

const (
	UsersFile  = "users.json"
	OrdersFile = "orders.json"
	OffersFile = "offers.json"
)

// Store is what the loader writes to.
type Store interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
	CreateOffer(ctx context.Context, o model.Offer) (model.Offer, error)
}

// Stats counts the inserted rows per table.
type Stats struct {
	Users  int
	Orders int
	Offers int
}

type orderRecord struct {
	ID          int     `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Address     *string `json:"address"`
	Price       *int    `json:"price"`
	CustomerID  *int    `json:"customer_id"`
	ExecutorID  *int    `json:"executor_id"`
}

var (
	userKeys  = []string{"id", "first_name", "last_name", "age", "email", "role", "phone"}
	orderKeys = []string{"id", "name", "description", "start_date", "end_date", "address", "price",
		"customer_id", "executor_id"}
	offerKeys = []string{"id", "order_id", "executor_id"}
)

// Load parses the three fixture files in dir and inserts users, then
// orders, then offers. Nothing is inserted unless all three files parse.
func Load(ctx context.Context, dir string, store Store) (Stats, error) {
	var (
		users  []model.User
		orders []orderRecord
		offers []model.Offer
	)

	g := new(errgroup.Group)
	g.Go(func() error { return readFixture(filepath.Join(dir, UsersFile), userKeys, &users) })
	g.Go(func() error { return readFixture(filepath.Join(dir, OrdersFile), orderKeys, &orders) })
	g.Go(func() error { return readFixture(filepath.Join(dir, OffersFile), offerKeys, &offers) })
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	parsedOrders := make([]model.Order, 0, len(orders))
	for i, rec := range orders {
		o, err := rec.toOrder()
		if err != nil {
			return Stats{}, errors.Wrapf(err, "%s: record %d", OrdersFile, i)
		}
		parsedOrders = append(parsedOrders, o)
	}

	var stats Stats
	for i, u := range users {
		if _, err := store.CreateUser(ctx, u); err != nil {
			return stats, errors.Wrapf(err, "insert user %d", i)
		}
		stats.Users++
	}
	for i, o := range parsedOrders {
		if _, err := store.CreateOrder(ctx, o); err != nil {
			return stats, errors.Wrapf(err, "insert order %d", i)
		}
		stats.Orders++
	}
	for i, o := range offers {
		if _, err := store.CreateOffer(ctx, o); err != nil {
			return stats, errors.Wrapf(err, "insert offer %d", i)
		}
		stats.Offers++
	}
	return stats, nil
}

// readFixture decodes the array in path into dst. Every record must carry all
// of keys; a null value counts as present.
func readFixture[T any](path string, keys []string, dst *[]T) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read fixture")
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Wrapf(err, "parse fixture %s", path)
	}
	rows := make([]T, 0, len(raw))
	for i, rec := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			return errors.Wrapf(err, "parse fixture %s: record %d", path, i)
		}
		for _, key := range keys {
			if _, ok := fields[key]; !ok {
				return errors.Errorf("fixture %s: record %d: missing key %q", path, i, key)
			}
		}
		var row T
		if err := json.Unmarshal(rec, &row); err != nil {
			return errors.Wrapf(err, "parse fixture %s: record %d", path, i)
		}
		rows = append(rows, row)
	}
	*dst = rows
	return nil
}

func (r orderRecord) toOrder() (model.Order, error) {
	start, err := parseFixtureDate(r.StartDate)
	if err != nil {
		return model.Order{}, errors.Wrap(err, "start_date")
	}
	end, err := parseFixtureDate(r.EndDate)
	if err != nil {
		return model.Order{}, errors.Wrap(err, "end_date")
	}
	return model.Order{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   &start,
		EndDate:     &end,
		Address:     r.Address,
		Price:       r.Price,
		CustomerID:  r.CustomerID,
		ExecutorID:  r.ExecutorID,
	}, nil
}

func parseFixtureDate(s string) (model.Date, error) {
	t, err := time.Parse(model.FixtureDateLayout, s)
	if err != nil {
		return model.Date{}, err
	}
	return model.NewDate(t), nil
}
