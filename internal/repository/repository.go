package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/internal/catalog"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ProductRow is a products table row: the catalog entry plus its opening stock
type ProductRow struct {
	domain.Product
	Stock int32
}

type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	GetAllProducts(ctx context.Context) ([]ProductRow, error)
	Close() error
	RunMigrations() error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// the seed store is read once at startup; one connection also keeps ":memory:" coherent
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]ProductRow, error) {
	query := `
		SELECT id, name, description, price, stock
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []ProductRow
	for rows.Next() {
		var (
			p     ProductRow
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for product %d: %w", price, p.ID, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// LoadCatalog builds the immutable catalog from the seed store and opens a ledger
// entry for every product with its seeded stock.
func LoadCatalog(ctx context.Context, repo RepoInterface, ledger store.StockLedger) (*catalog.Catalog, error) {
	rows, err := repo.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = row.Product
	}
	c, err := catalog.New(products...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	for _, row := range rows {
		if err := ledger.SetStock(row.ID, row.Stock); err != nil {
			return nil, fmt.Errorf("failed to set stock for product %d: %w", row.ID, err)
		}
	}
	return c, nil
}
