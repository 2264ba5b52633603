package main

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }

// set is a body field that was present with value v.
func set[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

func setDec(s string) Optional[decimal.Decimal] { return set(decimal.RequireFromString(s)) }

var productColumns = []string{"product_id", "product_name", "description", "price", "image"}

func TestProductRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT product_id, product_name, description, price, image FROM products").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(int64(1), "Test Part", "d", "9.99", "http://x").
			AddRow(int64(2), nil, nil, nil, nil))

	products, err := store.Products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ProductID)
	assert.Equal(t, "Test Part", *products[0].ProductName)
	assert.True(t, products[0].Price.Valid)
	assert.Equal(t, "9.99", products[0].Price.Decimal.StringFixed(2))
	assert.Nil(t, products[1].ProductName)
	assert.False(t, products[1].Price.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryListEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT product_id, product_name, description, price, image FROM products").
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := store.Products.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestRepositoryGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT order_id, user_id, order_date, total_amount FROM orders WHERE order_id = ?").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id", "order_date", "total_amount"}))

	_, err := store.Orders.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT order_item_id, order_id, product_id, quantity, subtotal FROM order_items WHERE order_item_id = ?").
		WithArgs(int64(3)).
		WillReturnError(errors.New("connection reset"))

	_, err := store.OrderItems.Get(context.Background(), 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRepositoryCreateWritesOnlyPresentFields(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("INSERT INTO products (product_name, price) VALUES (?, ?)").
		WithArgs("Test Part", "9.99").
		WillReturnResult(sqlmock.NewResult(6, 1))

	id, err := store.Products.Create(context.Background(), ProductInput{
		ProductName: set("Test Part"),
		Price:       setDec("9.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateOrderTargetsOrdersTable(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("INSERT INTO orders (user_id, total_amount) VALUES (?, ?)").
		WithArgs(int64(1), "120.5").
		WillReturnResult(sqlmock.NewResult(10, 1))

	id, err := store.Orders.Create(context.Background(), OrderInput{
		UserID:      set(int64(1)),
		TotalAmount: setDec("120.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateWithoutFields(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	_, err := store.Users.Create(context.Background(), UserInput{})
	assert.ErrorIs(t, err, ErrNoFields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateIsPartial(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE products SET price = ? WHERE product_id = ?").
		WithArgs("12.75", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Products.Update(context.Background(), 5, ProductInput{Price: setDec("12.75")})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateNullClearsColumn(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE products SET description = ? WHERE product_id = ?").
		WithArgs(nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Products.Update(context.Background(), 1, ProductInput{
		Description: Optional[string]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateOrderItemTargetsOrderItemsTable(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE order_items SET quantity = ?, subtotal = ? WHERE order_item_id = ?").
		WithArgs(int64(3), "29.97", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.OrderItems.Update(context.Background(), 8, OrderItemInput{Quantity: set(int64(3)), Subtotal: setDec("29.97")})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateMissingRowIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("UPDATE users SET address = ? WHERE user_id = ?").
		WithArgs("1 New St", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Users.Update(context.Background(), 404, UserInput{Address: set("1 New St")})
	assert.NoError(t, err)
}

func TestRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("DELETE FROM users WHERE user_id = ?").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Users.Delete(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteForeignKeyViolation(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectExec("DELETE FROM users WHERE user_id = ?").
		WithArgs(int64(1)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})

	err := store.Users.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, isForeignKeyViolation(err))
}

func TestFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	query := "SELECT user_id, username, email, password, address FROM users WHERE username = ? LIMIT 1"
	userColumns := []string{"user_id", "username", "email", "password", "address"}

	mock.ExpectQuery(query).
		WithArgs("john_doe").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "john_doe", "john@example.com", "$2a$hash", "123 Main St"))
	mock.ExpectQuery(query).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(userColumns))

	u, err := store.Credentials.FindByUsername(context.Background(), "john_doe")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.UserID)
	assert.Equal(t, "$2a$hash", *u.Password)

	_, err = store.Credentials.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
