package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"product-catalogue/internal/products"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	healthCheckTimeout = 2 * time.Second

	pgUniqueViolation = "23505"
)

const selectProduct = `
	SELECT p.id, p.version, p.sku, p.name, p.description, p.image_url,
	       pr.value, pr.discount_percent,
	       i.quantity, i.reserved,
	       c.id, c.name
	FROM products p
	LEFT JOIN prices pr ON pr.product_id = p.id
	LEFT JOIN inventories i ON i.product_id = p.id
	LEFT JOIN categories c ON c.id = p.category_id
	WHERE p.sku = $1
`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresRepository stores products with their owned price and inventory
// rows. Categories live in their own table and are shared by name.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, product products.Product, onDuplicateSku error) (products.Product, error) {
	var created products.Product
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		categoryID, err := resolveCategory(ctx, tx, product.Category)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO products (id, version, sku, name, description, image_url, category_id)
			VALUES ($1, 0, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query,
			product.ID, product.SKU, product.Name, product.Description,
			nullString(product.ImageURL), categoryID,
		); err != nil {
			if isUniqueViolation(err) {
				return onDuplicateSku
			}
			return fmt.Errorf("insert product: %w", err)
		}

		if err := replaceOwned(ctx, tx, product.ID, product); err != nil {
			return err
		}

		created, err = scanProduct(ctx, tx, product.SKU, errNoProduct)
		return err
	})
	if err != nil {
		return products.Product{}, err
	}
	return created, nil
}

func (r *PostgresRepository) GetBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error) {
	return scanProduct(ctx, r.db, sku, onNotFound)
}

// Update runs the version-checked update. The version is read first and the
// UPDATE only matches the row if nobody bumped it in between; a zero-row
// UPDATE is a lost race and yields onOutdatedVersion.
func (r *PostgresRepository) Update(
	ctx context.Context,
	product products.Product,
	expectedVersion *int,
	onNotFound, onOutdatedVersion, onDuplicate error,
) (products.Product, error) {
	var updated products.Product
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var (
			id      uuid.UUID
			version int
		)
		err := tx.QueryRowContext(ctx, `SELECT id, version FROM products WHERE sku = $1`, product.SKU).Scan(&id, &version)
		if errors.Is(err, sql.ErrNoRows) {
			return onNotFound
		}
		if err != nil {
			return fmt.Errorf("read version %q: %w", product.SKU, err)
		}
		if expectedVersion != nil && *expectedVersion != version {
			return onOutdatedVersion
		}

		categoryID, err := resolveCategory(ctx, tx, product.Category)
		if err != nil {
			return err
		}

		query := `
			UPDATE products
			SET name = $1, description = $2, image_url = $3, category_id = $4,
			    version = version + 1, updated_at = NOW()
			WHERE sku = $5 AND version = $6
		`
		result, err := tx.ExecContext(ctx, query,
			product.Name, product.Description, nullString(product.ImageURL), categoryID,
			product.SKU, version,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return onDuplicate
			}
			return fmt.Errorf("update product %q: %w", product.SKU, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return onOutdatedVersion
		}

		if err := replaceOwned(ctx, tx, id, product); err != nil {
			return err
		}

		updated, err = scanProduct(ctx, tx, product.SKU, onNotFound)
		return err
	})
	if err != nil {
		return products.Product{}, err
	}
	return updated, nil
}

// Delete removes the product with its price and inventory rows. The category
// row is left alone since other products may reference it.
func (r *PostgresRepository) Delete(ctx context.Context, sku string, onNotFound error) (bool, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE sku = $1 FOR UPDATE`, sku).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return onNotFound
		}
		if err != nil {
			return fmt.Errorf("lock product %q: %w", sku, err)
		}

		for _, query := range []string{
			`DELETE FROM prices WHERE product_id = $1`,
			`DELETE FROM inventories WHERE product_id = $1`,
			`DELETE FROM products WHERE id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("delete product %q: %w", sku, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// resolveCategory returns the id of the named category, creating it on first use.
func resolveCategory(ctx context.Context, q querier, category *products.Category) (uuid.NullUUID, error) {
	if category == nil {
		return uuid.NullUUID{}, nil
	}

	query := `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id uuid.UUID
	if err := q.QueryRowContext(ctx, query, uuid.New(), category.Name).Scan(&id); err != nil {
		return uuid.NullUUID{}, fmt.Errorf("resolve category %q: %w", category.Name, err)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// replaceOwned makes the price and inventory rows match the aggregate,
// removing the rows the aggregate no longer has.
func replaceOwned(ctx context.Context, q querier, productID uuid.UUID, product products.Product) error {
	if product.Price != nil {
		query := `
			INSERT INTO prices (product_id, value, discount_percent)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id) DO UPDATE
			SET value = EXCLUDED.value, discount_percent = EXCLUDED.discount_percent
		`
		if _, err := q.ExecContext(ctx, query, productID, product.Price.Value, product.Price.DiscountPercent); err != nil {
			return fmt.Errorf("write price: %w", err)
		}
	} else if _, err := q.ExecContext(ctx, `DELETE FROM prices WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete price: %w", err)
	}

	if product.Inventory != nil {
		query := `
			INSERT INTO inventories (product_id, quantity, reserved)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id) DO UPDATE
			SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved
		`
		if _, err := q.ExecContext(ctx, query, productID, product.Inventory.Quantity, product.Inventory.Reserved); err != nil {
			return fmt.Errorf("write inventory: %w", err)
		}
	} else if _, err := q.ExecContext(ctx, `DELETE FROM inventories WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	return nil
}

var errNoProduct = errors.New("product row vanished inside its own transaction")

func scanProduct(ctx context.Context, q querier, sku string, onNotFound error) (products.Product, error) {
	var (
		p               products.Product
		imageURL        sql.NullString
		priceValue      sql.NullFloat64
		discountPercent sql.NullFloat64
		quantity        sql.NullInt64
		reserved        sql.NullInt64
		categoryID      uuid.NullUUID
		categoryName    sql.NullString
	)

	err := q.QueryRowContext(ctx, selectProduct, sku).Scan(
		&p.ID, &p.Version, &p.SKU, &p.Name, &p.Description, &imageURL,
		&priceValue, &discountPercent,
		&quantity, &reserved,
		&categoryID, &categoryName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return products.Product{}, onNotFound
	}
	if err != nil {
		return products.Product{}, fmt.Errorf("select product %q: %w", sku, err)
	}

	p.ImageURL = imageURL.String
	if priceValue.Valid {
		p.Price = &products.Price{Value: priceValue.Float64, DiscountPercent: discountPercent.Float64}
	}
	if quantity.Valid {
		p.Inventory = &products.Inventory{Quantity: int(quantity.Int64), Reserved: int(reserved.Int64)}
	}
	if categoryID.Valid {
		p.Category = &products.Category{ID: categoryID.UUID, Name: categoryName.String}
	}
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
