// Package store is the persistence contract shared by both backends: the
// flat-file JSON database and the relational one. Handlers only ever see
// these interfaces.
package store

import (
	"context"
	"errors"

	"github.com/condomarket/backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

type Users interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
}

type Products interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	// Filter loads the whole product set and keeps records the predicate
	// accepts. There is no index; searches scan.
	Filter(ctx context.Context, keep func(*models.Product) bool) ([]models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Remove(ctx context.Context, id int64) error
}

type Orders interface {
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	Filter(ctx context.Context, keep func(*models.Order) bool) ([]models.Order, error)
	Insert(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, o *models.Order) error
	Remove(ctx context.Context, id int64) error
}

type Categories interface {
	All(ctx context.Context) ([]models.Category, error)
}
