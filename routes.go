package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// Request bodies may only carry the allowlisted columns.
	binding.EnableDecoderDisallowUnknownFields = true
}

// =======================
// Helper Functions
// =======================

// GetIDParam parses the :id path parameter, answering 400 when it is not an integer.
func GetIDParam(c *gin.Context, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, ErrInvalidID, label)
		return 0, false
	}
	return id, true
}

// bindBody decodes the JSON body into dst. An absent body counts as {}.
func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// =========================
// Resource Routes
// =========================

// resourceRoutes serves list / get / create / update / delete for one table.
type resourceRoutes[T any, In any] struct {
	path  string
	label string
	repo  Repository[T, In]
	// prepare, when set, rewrites a decoded body before it is stored.
	prepare func(*In) error
}

func (rr resourceRoutes[T, In]) register(r gin.IRouter) {
	api := r.Group(rr.path)
	api.GET("", rr.list)
	api.GET("/:id", rr.get)
	api.POST("", rr.create)
	api.PATCH("/:id", rr.update)
	api.DELETE("/:id", rr.delete)
}

func (rr resourceRoutes[T, In]) list(c *gin.Context) {
	items, err := rr.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, err, rr.label)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (rr resourceRoutes[T, In]) get(c *gin.Context) {
	id, ok := GetIDParam(c, rr.label)
	if !ok {
		return
	}
	item, err := rr.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, rr.label)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (rr resourceRoutes[T, In]) create(c *gin.Context) {
	in, ok := rr.decode(c)
	if !ok {
		return
	}
	id, err := rr.repo.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, rr.label)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": rr.label + " added successfully",
		"id":      id,
	})
}

func (rr resourceRoutes[T, In]) update(c *gin.Context) {
	id, ok := GetIDParam(c, rr.label)
	if !ok {
		return
	}
	in, ok := rr.decode(c)
	if !ok {
		return
	}
	if err := rr.repo.Update(c.Request.Context(), id, in); err != nil {
		respondError(c, err, rr.label)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": rr.label + " updated successfully"})
}

func (rr resourceRoutes[T, In]) delete(c *gin.Context) {
	id, ok := GetIDParam(c, rr.label)
	if !ok {
		return
	}
	if err := rr.repo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, rr.label)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": rr.label + " deleted successfully"})
}

func (rr resourceRoutes[T, In]) decode(c *gin.Context) (In, bool) {
	var in In
	if err := bindBody(c, &in); err != nil {
		respondError(c, err, rr.label)
		return in, false
	}
	if rr.prepare != nil {
		if err := rr.prepare(&in); err != nil {
			respondError(c, err, rr.label)
			return in, false
		}
	}
	return in, true
}

// =========================
// Route setup
// =========================

func ProductRoutes(r gin.IRouter, store *Store) {
	resourceRoutes[Product, ProductInput]{path: "/products", label: "Product", repo: store.Products}.register(r)
}

func UserRoutes(r gin.IRouter, store *Store) {
	resourceRoutes[User, UserInput]{
		path:    "/users",
		label:   "User",
		repo:    store.Users,
		prepare: hashUserPassword,
	}.register(r)
}

func OrderRoutes(r gin.IRouter, store *Store) {
	resourceRoutes[Order, OrderInput]{path: "/orders", label: "Order", repo: store.Orders}.register(r)
}

func OrderItemRoutes(r gin.IRouter, store *Store) {
	resourceRoutes[OrderItem, OrderItemInput]{path: "/order_items", label: "Item", repo: store.OrderItems}.register(r)
}
