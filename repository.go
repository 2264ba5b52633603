package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository is the per-resource CRUD contract the router depends on.
type Repository[T any, In any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in In) (int64, error)
	Update(ctx context.Context, id int64, in In) error
	Delete(ctx context.Context, id int64) error
}

// UserFinder looks up a user, password hash included, for the login check.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (User, error)
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type input interface {
	assignments() []assignment
}

// table describes how one resource maps onto its table. columns is the
// select list and must line up with scan.
type table[T any] struct {
	name     string
	idColumn string
	columns  []string
	scan     func(rowScanner) (T, error)
}

var productsTable = table[Product]{
	name:     "products",
	idColumn: "product_id",
	columns:  []string{"product_id", "product_name", "description", "price", "image"},
	scan: func(s rowScanner) (Product, error) {
		var p Product
		err := s.Scan(&p.ProductID, &p.ProductName, &p.Description, &p.Price, &p.Image)
		return p, err
	},
}

var usersTable = table[User]{
	name:     "users",
	idColumn: "user_id",
	columns:  []string{"user_id", "username", "email", "password", "address"},
	scan: func(s rowScanner) (User, error) {
		var u User
		err := s.Scan(&u.UserID, &u.Username, &u.Email, &u.Password, &u.Address)
		return u, err
	},
}

var ordersTable = table[Order]{
	name:     "orders",
	idColumn: "order_id",
	columns:  []string{"order_id", "user_id", "order_date", "total_amount"},
	scan: func(s rowScanner) (Order, error) {
		var o Order
		err := s.Scan(&o.OrderID, &o.UserID, &o.OrderDate, &o.TotalAmount)
		return o, err
	},
}

var orderItemsTable = table[OrderItem]{
	name:     "order_items",
	idColumn: "order_item_id",
	columns:  []string{"order_item_id", "order_id", "product_id", "quantity", "subtotal"},
	scan: func(s rowScanner) (OrderItem, error) {
		var i OrderItem
		err := s.Scan(&i.OrderItemID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Subtotal)
		return i, err
	},
}

// sqlRepository runs every resource operation as a single parameterised
// statement. Table and column names come from the descriptor and the input
// allowlists, never from the request.
type sqlRepository[T any, In input] struct {
	db dbtx
	t  table[T]
}

func newSQLRepository[T any, In input](db dbtx, t table[T]) *sqlRepository[T, In] {
	return &sqlRepository[T, In]{db: db, t: t}
}

func (r *sqlRepository[T, In]) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(r.t.columns, ", "), r.t.name)
}

func (r *sqlRepository[T, In]) List(ctx context.Context) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.selectQuery())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.name, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := r.t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.t.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.name, err)
	}
	return items, nil
}

func (r *sqlRepository[T, In]) Get(ctx context.Context, id int64) (T, error) {
	query := fmt.Sprintf("%s WHERE %s = ?", r.selectQuery(), r.t.idColumn)
	item, err := r.t.scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("get %s %d: %w", r.t.name, id, err)
	}
	return item, nil
}

func (r *sqlRepository[T, In]) Create(ctx context.Context, in In) (int64, error) {
	as := in.assignments()
	if len(as) == 0 {
		return 0, ErrNoFields
	}

	columns := make([]string, len(as))
	args := make([]any, len(as))
	for i, a := range as {
		columns[i] = a.column
		args[i] = a.value
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(as)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.t.name, strings.Join(columns, ", "), placeholders)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", r.t.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", r.t.name, err)
	}
	return id, nil
}

// Update sets only the columns present in the input. A missing row is not
// an error.
func (r *sqlRepository[T, In]) Update(ctx context.Context, id int64, in In) error {
	as := in.assignments()
	if len(as) == 0 {
		return ErrNoFields
	}

	fields := make([]string, len(as))
	args := make([]any, 0, len(as)+1)
	for i, a := range as {
		fields[i] = a.column + " = ?"
		args = append(args, a.value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", r.t.name, strings.Join(fields, ", "), r.t.idColumn)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s %d: %w", r.t.name, id, err)
	}
	return nil
}

// Delete removes the row if it exists. A missing row is not an error.
func (r *sqlRepository[T, In]) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.t.name, r.t.idColumn)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", r.t.name, id, err)
	}
	return nil
}

type userRepository struct {
	*sqlRepository[User, UserInput]
}

// FindByUsername returns the first user with an exact username match.
func (r userRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	query := fmt.Sprintf("%s WHERE username = ? LIMIT 1", r.selectQuery())
	u, err := r.t.scan(r.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("find user %q: %w", username, err)
	}
	return u, nil
}

// Store bundles the repositories handed to the router.
type Store struct {
	Products    Repository[Product, ProductInput]
	Users       Repository[User, UserInput]
	Orders      Repository[Order, OrderInput]
	OrderItems  Repository[OrderItem, OrderItemInput]
	Credentials UserFinder
}

func NewStore(db dbtx) *Store {
	users := userRepository{newSQLRepository[User, UserInput](db, usersTable)}
	return &Store{
		Products:    newSQLRepository[Product, ProductInput](db, productsTable),
		Users:       users,
		Orders:      newSQLRepository[Order, OrderInput](db, ordersTable),
		OrderItems:  newSQLRepository[OrderItem, OrderItemInput](db, orderItemsTable),
		Credentials: users,
	}
}
