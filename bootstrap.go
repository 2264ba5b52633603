package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// execer is the slice of *sql.DB the bootstrapper needs.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tables in creation order: orders references users, order_items references
// orders and products.
var tableQueries = []struct {
	name  string
	query string
}{
	{"products", `CREATE TABLE IF NOT EXISTS products (
		product_id INT AUTO_INCREMENT PRIMARY KEY,
		product_name VARCHAR(150),
		description VARCHAR(255),
		price DECIMAL(10, 2),
		image VARCHAR(255))`},
	{"users", `CREATE TABLE IF NOT EXISTS users (
		user_id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50),
		email VARCHAR(50),
		password VARCHAR(255),
		address VARCHAR(255))`},
	{"orders", `CREATE TABLE IF NOT EXISTS orders (
		order_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT,
		order_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		total_amount DECIMAL(10, 2),
		FOREIGN KEY (user_id) REFERENCES users(user_id))`},
	{"order_items", `CREATE TABLE IF NOT EXISTS order_items (
		order_item_id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT,
		product_id INT,
		quantity INT,
		subtotal DECIMAL(10, 2),
		FOREIGN KEY (order_id) REFERENCES orders(order_id),
		FOREIGN KEY (product_id) REFERENCES products(product_id))`},
}

type seedProduct struct {
	name        string
	description string
	price       string
	image       string
}

var seedProducts = []seedProduct{
	{"Intel Core i9-9900K", "High-performance CPU for gaming and productivity", "499.99", "https://picsum.photos/seed/picsum/200/300"},
	{"NVIDIA GeForce RTX 3080", "Powerful GPU for gaming and rendering", "699.99", "https://picsum.photos/seed/picsum/200/300"},
	{"Corsair Vengeance RGB Pro 16GB (2 x 8GB)", "DDR4 RAM with RGB lighting for enhanced aesthetics", "99.99", "https://picsum.photos/seed/picsum/200/300"},
	{"Samsung 970 EVO Plus 1TB NVMe SSD", "Fast NVMe SSD for storage and boot drive", "149.99", "https://picsum.photos/seed/picsum/200/300"},
	{"ASUS ROG Strix Z390-E Gaming", "High-end motherboard with RGB lighting and advanced features", "259.99", "https://picsum.photos/seed/picsum/200/300"},
}

type seedUser struct {
	username string
	email    string
	password string
	address  string
}

var seedUsers = []seedUser{
	{"john_doe", "john@example.com", "password123", "123 Main St, City, Country"},
	{"jane_smith", "jane@example.com", "password456", "456 Elm St, City, Country"},
}

const (
	seedProductQuery = `INSERT INTO products (product_name, description, price, image)
		SELECT ?, ?, ?, ? FROM DUAL
		WHERE NOT EXISTS (SELECT 1 FROM products WHERE product_name = ?)`
	seedUserQuery = `INSERT INTO users (username, email, password, address)
		SELECT ?, ?, ?, ? FROM DUAL
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE username = ?)`
)

// EnsureDatabase creates the named schema when it is missing.
func EnsureDatabase(ctx context.Context, db execer, name string) error {
	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", strings.ReplaceAll(name, "`", "``"))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}
	logger.Info().Str("database", name).Msg("Database created or already exists")
	return nil
}

// Bootstrap creates the four tables and inserts the seed rows that are not
// there yet. A failing step is logged and skipped; the joined failures are
// returned so the caller can decide what to do with them.
func Bootstrap(ctx context.Context, db execer) error {
	var errs []error

	for _, t := range tableQueries {
		if _, err := db.ExecContext(ctx, t.query); err != nil {
			logger.Error().Err(err).Str("table", t.name).Msg("Error creating table")
			errs = append(errs, fmt.Errorf("create table %s: %w", t.name, err))
			continue
		}
		logger.Debug().Str("table", t.name).Msg("Table created or already exists")
	}

	for _, p := range seedProducts {
		price := decimal.RequireFromString(p.price)
		if _, err := db.ExecContext(ctx, seedProductQuery, p.name, p.description, price, p.image, p.name); err != nil {
			logger.Error().Err(err).Str("product", p.name).Msg("Error inserting initial product")
			errs = append(errs, fmt.Errorf("seed product %q: %w", p.name, err))
		}
	}

	for _, u := range seedUsers {
		hash, err := hashPassword(u.password)
		if err != nil {
			errs = append(errs, fmt.Errorf("hash seed password for %q: %w", u.username, err))
			continue
		}
		if _, err := db.ExecContext(ctx, seedUserQuery, u.username, u.email, hash, u.address, u.username); err != nil {
			logger.Error().Err(err).Str("user", u.username).Msg("Error inserting initial user")
			errs = append(errs, fmt.Errorf("seed user %q: %w", u.username, err))
		}
	}

	if len(errs) == 0 {
		logger.Info().Int("products", len(seedProducts)).Int("users", len(seedUsers)).Msg("Schema ready and seed data present")
	}
	return errors.Join(errs...)
}
