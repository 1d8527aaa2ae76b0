package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"solar_eda"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*solar_eda.User, error)
}

// RunRepo stores finished pipeline runs.
type RunRepo interface {
	Save(ctx context.Context, r solar_eda.Run) error
	// List returns runs in [from, to] (zero bounds are open) for dataset ("" = any),
	// oldest first. The report is not loaded.
	List(ctx context.Context, from, to time.Time, dataset string) ([]solar_eda.Run, error)
	Get(ctx context.Context, id string) (solar_eda.Run, error)
	Latest(ctx context.Context) (solar_eda.Run, error)
}

type Repository struct {
	RunRepo RunRepo
	Auth    Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RunRepo: NewRunSQLite(db),
		Auth:    NewUserRepository(db),
	}
}
