package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/easyshop/easyshop-api/internal/config"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

// Repositories bundles the Postgres-backed repositories over one pool.
type Repositories struct {
	DB       *sql.DB
	Category CategoryRepository
	Product  ProductRepository
	Cart     CartRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.RunMigrations {
		if err := RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("Database migrations applied")
	}

	return NewWithDB(db), nil
}

// NewWithDB wires the repositories over an already opened pool.
func NewWithDB(db *sql.DB) *Repositories {
	products := NewProductRepo(db)

	return &Repositories{
		DB:       db,
		Category: NewCategoryRepo(db),
		Product:  products,
		Cart:     NewCartRepo(db, products),
	}
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
