package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fsanano/marketplace/internal/model"
)

// PostgresRepository stores the tables in PostgreSQL. The schema is dropped and
// created again by NewPostgresRepository, so the data lives as long as the process.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (*PostgresRepository, error) {
	r := &PostgresRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// No foreign keys: orders and offers may reference rows that do not exist.
// seq keeps insertion order for listings. Integer columns are BIGINT to hold
// any id the memory store accepts.
var schema = []string{
	`DROP TABLE IF EXISTS offers, orders, users`,
	`CREATE TABLE users (
		seq        BIGSERIAL,
		id         BIGINT PRIMARY KEY,
		first_name TEXT,
		last_name  TEXT,
		age        BIGINT,
		email      TEXT,
		role       TEXT,
		phone      TEXT
	)`,
	`CREATE TABLE orders (
		seq         BIGSERIAL,
		id          BIGINT PRIMARY KEY,
		name        TEXT,
		description TEXT,
		start_date  DATE,
		end_date    DATE,
		address     TEXT,
		price       BIGINT,
		customer_id BIGINT,
		executor_id BIGINT
	)`,
	`CREATE TABLE offers (
		seq         BIGSERIAL,
		id          BIGINT PRIMARY KEY,
		order_id    BIGINT,
		executor_id BIGINT
	)`,
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// RunAtomic executes a function within a transaction
func (r *PostgresRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// rollback is a no-op once the commit went through
	defer tx.Rollback(ctx)

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txKey struct{}

func (r *PostgresRepository) getExecutor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// PgxExecutor is an interface that matches both *pgx.Conn/Pool and pgx.Tx
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	return listRows(ctx, r, usersTable)
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (model.User, error) {
	return getRow(ctx, r, usersTable, id)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	return insertRow(ctx, r, usersTable, u)
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id int, fn func(*model.User)) (model.User, error) {
	return updateRow(ctx, r, usersTable, id, fn)
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id int) error {
	return deleteRow(ctx, r, usersTable, id)
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	return listRows(ctx, r, ordersTable)
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (model.Order, error) {
	return getRow(ctx, r, ordersTable, id)
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	return insertRow(ctx, r, ordersTable, o)
}

func (r *PostgresRepository) UpdateOrder(ctx context.Context, id int, fn func(*model.Order)) (model.Order, error) {
	return updateRow(ctx, r, ordersTable, id, fn)
}

func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int) error {
	return deleteRow(ctx, r, ordersTable, id)
}

func (r *PostgresRepository) ListOffers(ctx context.Context) ([]model.Offer, error) {
	return listRows(ctx, r, offersTable)
}

func (r *PostgresRepository) GetOffer(ctx context.Context, id int) (model.Offer, error) {
	return getRow(ctx, r, offersTable, id)
}

func (r *PostgresRepository) CreateOffer(ctx context.Context, o model.Offer) (model.Offer, error) {
	return insertRow(ctx, r, offersTable, o)
}

func (r *PostgresRepository) UpdateOffer(ctx context.Context, id int, fn func(*model.Offer)) (model.Offer, error) {
	return updateRow(ctx, r, offersTable, id, fn)
}

func (r *PostgresRepository) DeleteOffer(ctx context.Context, id int) error {
	return deleteRow(ctx, r, offersTable, id)
}

// tableDef maps one row type onto its table. columns and values line up,
// and id always comes first.
type tableDef[T any] struct {
	name    string
	columns []string
	values  func(T) []any
	scan    func(pgx.Row) (T, error)
}

var usersTable = tableDef[model.User]{
	name:    "users",
	columns: []string{"id", "first_name", "last_name", "age", "email", "role", "phone"},
	values: func(u model.User) []any {
		return []any{u.ID, u.FirstName, u.LastName, u.Age, u.Email, u.Role, u.Phone}
	},
	scan: func(row pgx.Row) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &u.Email, &u.Role, &u.Phone)
		return u, err
	},
}

var ordersTable = tableDef[model.Order]{
	name: "orders",
	columns: []string{"id", "name", "description", "start_date", "end_date", "address", "price",
		"customer_id", "executor_id"},
	values: func(o model.Order) []any {
		return []any{o.ID, o.Name, o.Description, dateArg(o.StartDate), dateArg(o.EndDate), o.Address, o.Price,
			o.CustomerID, o.ExecutorID}
	},
	scan: func(row pgx.Row) (model.Order, error) {
		var o model.Order
		var start, end *time.Time
		err := row.Scan(&o.ID, &o.Name, &o.Description, &start, &end, &o.Address, &o.Price,
			&o.CustomerID, &o.ExecutorID)
		o.StartDate, o.EndDate = dateValue(start), dateValue(end)
		return o, err
	},
}

var offersTable = tableDef[model.Offer]{
	name:    "offers",
	columns: []string{"id", "order_id", "executor_id"},
	values: func(o model.Offer) []any {
		return []any{o.ID, o.OrderID, o.ExecutorID}
	},
	scan: func(row pgx.Row) (model.Offer, error) {
		var o model.Offer
		err := row.Scan(&o.ID, &o.OrderID, &o.ExecutorID)
		return o, err
	},
}

func (s tableDef[T]) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.columns, ", "), s.name)
}

func (s tableDef[T]) lockSQL() string {
	return fmt.Sprintf("LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE", s.name)
}

// insertSQL upserts on id. A NULL id becomes max(id)+1.
func (s tableDef[T]) insertSQL() string {
	placeholders := make([]string, len(s.columns))
	placeholders[0] = fmt.Sprintf("COALESCE($1::bigint, (SELECT COALESCE(MAX(id), 0) + 1 FROM %s))", s.name)
	sets := make([]string, 0, len(s.columns)-1)
	for i, col := range s.columns[1:] {
		placeholders[i+1] = fmt.Sprintf("$%d", i+2)
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s RETURNING %s",
		s.name, strings.Join(s.columns, ", "), strings.Join(placeholders, ", "), strings.Join(sets, ", "),
		strings.Join(s.columns, ", "))
}

// updateSQL takes the current id as $1 followed by the new column values.
func (s tableDef[T]) updateSQL() string {
	sets := make([]string, len(s.columns))
	for i, col := range s.columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		s.name, strings.Join(sets, ", "), strings.Join(s.columns, ", "))
}

func listRows[T any](ctx context.Context, r *PostgresRepository, def tableDef[T]) ([]T, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, def.selectSQL()+" ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", def.name, err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return def.scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", def.name, err)
	}
	return items, nil
}

func getRow[T any](ctx context.Context, r *PostgresRepository, def tableDef[T], id int) (T, error) {
	return fetchRow(ctx, r.getExecutor(ctx), def, def.selectSQL()+" WHERE id = $1", id)
}

func insertRow[T any](ctx context.Context, r *PostgresRepository, def tableDef[T], row T) (T, error) {
	var out T
	err := r.RunAtomic(ctx, func(ctx context.Context) error {
		q := r.getExecutor(ctx)
		if _, err := q.Exec(ctx, def.lockSQL()); err != nil {
			return fmt.Errorf("failed to lock %s: %w", def.name, err)
		}
		args := def.values(row)
		if id, _ := args[0].(int); id == 0 {
			args[0] = nil
		}
		var err error
		out, err = def.scan(q.QueryRow(ctx, def.insertSQL(), args...))
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", def.name, err)
		}
		return nil
	})
	return out, err
}

func updateRow[T any](ctx context.Context, r *PostgresRepository, def tableDef[T], id int, fn func(*T)) (T, error) {
	var out T
	err := r.RunAtomic(ctx, func(ctx context.Context) error {
		q := r.getExecutor(ctx)
		if _, err := q.Exec(ctx, def.lockSQL()); err != nil {
			return fmt.Errorf("failed to lock %s: %w", def.name, err)
		}
		row, err := fetchRow(ctx, q, def, def.selectSQL()+" WHERE id = $1 FOR UPDATE", id)
		if err != nil {
			return err
		}
		fn(&row)
		args := def.values(row)
		// moving onto an occupied id evicts the occupant
		if newID, _ := args[0].(int); newID != id {
			if _, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", def.name), newID); err != nil {
				return fmt.Errorf("failed to evict %s %d: %w", def.name, newID, err)
			}
		}
		out, err = def.scan(q.QueryRow(ctx, def.updateSQL(), append([]any{id}, args...)...))
		if err != nil {
			return fmt.Errorf("failed to update %s %d: %w", def.name, id, err)
		}
		return nil
	})
	return out, err
}

func deleteRow[T any](ctx context.Context, r *PostgresRepository, def tableDef[T], id int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", def.name), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", def.name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func fetchRow[T any](ctx context.Context, q PgxExecutor, def tableDef[T], sql string, id int) (T, error) {
	row, err := def.scan(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return row, model.ErrNotFound
		}
		return row, fmt.Errorf("failed to get %s %d: %w", def.name, id, err)
	}
	return row, nil
}

func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func dateValue(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.NewDate(*t)
	return &d
}
