package main

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money columns go out as JSON numbers (9.99), not strings ("9.99").
	decimal.MarshalJSONWithoutQuotes = true
}

// assignment is one column = value pair of an INSERT or UPDATE.
type assignment struct {
	column string
	value  any
}

// Optional remembers whether a JSON key was present at all, and whether it
// was null. A present null writes NULL; an absent key is left out.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Null, o.Value = true, zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) sqlValue() any {
	if o.Null {
		return nil
	}
	return o.Value
}

// appendSet adds column = o when the key was present in the body.
func appendSet[T any](a []assignment, column string, o Optional[T]) []assignment {
	if !o.Set {
		return a
	}
	return append(a, assignment{column, o.sqlValue()})
}

// Columns are NULLable in the schema, hence the pointers and NullDecimal.

type Product struct {
	ProductID   int64               `json:"product_id"`
	ProductName *string             `json:"product_name"`
	Description *string             `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Image       *string             `json:"image"`
}

// ProductInput is the writable subset of a product.
type ProductInput struct {
	ProductName Optional[string]          `json:"product_name"`
	Description Optional[string]          `json:"description"`
	Price       Optional[decimal.Decimal] `json:"price"`
	Image       Optional[string]          `json:"image"`
}

func (in ProductInput) assignments() []assignment {
	var a []assignment
	a = appendSet(a, "product_name", in.ProductName)
	a = appendSet(a, "description", in.Description)
	a = appendSet(a, "price", in.Price)
	a = appendSet(a, "image", in.Image)
	return a
}

type Order struct {
	OrderID     int64               `json:"order_id"`
	UserID      *int64              `json:"user_id"`
	OrderDate   *time.Time          `json:"order_date"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
}

// OrderInput leaves order_date to the column default unless given.
type OrderInput struct {
	UserID      Optional[int64]           `json:"user_id"`
	OrderDate   Optional[time.Time]       `json:"order_date"`
	TotalAmount Optional[decimal.Decimal] `json:"total_amount"`
}

func (in OrderInput) assignments() []assignment {
	var a []assignment
	a = appendSet(a, "user_id", in.UserID)
	a = appendSet(a, "order_date", in.OrderDate)
	a = appendSet(a, "total_amount", in.TotalAmount)
	return a
}

type OrderItem struct {
	OrderItemID int64               `json:"order_item_id"`
	OrderID     *int64              `json:"order_id"`
	ProductID   *int64              `json:"product_id"`
	Quantity    *int64              `json:"quantity"`
	Subtotal    decimal.NullDecimal `json:"subtotal"`
}

// OrderItemInput is not checked against the product price.
type OrderItemInput struct {
	OrderID   Optional[int64]           `json:"order_id"`
	ProductID Optional[int64]           `json:"product_id"`
	Quantity  Optional[int64]           `json:"quantity"`
	Subtotal  Optional[decimal.Decimal] `json:"subtotal"`
}

func (in OrderItemInput) assignments() []assignment {
	var a []assignment
	a = appendSet(a, "order_id", in.OrderID)
	a = appendSet(a, "product_id", in.ProductID)
	a = appendSet(a, "quantity", in.Quantity)
	a = appendSet(a, "subtotal", in.Subtotal)
	return a
}
