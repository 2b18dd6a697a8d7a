package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inventory-service/internal/domain"
)

// ProductMutation edits a locked product in place before it is written back.
type ProductMutation func(product *domain.Product) error

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Mutate(ctx context.Context, id int64, mutate ProductMutation) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository instantiates repository.
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, sku, quantity, price, category, description, is_archived, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, sku, quantity, price, category, description, is_archived, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			product.Name,
			product.SKU,
			product.Quantity,
			product.Price,
			product.Category,
			product.Description,
			product.IsArchived,
			product.CreatedAt,
			product.UpdatedAt,
		).Scan(&product.ID)
	})
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if !filter.IncludeArchived {
		conditions = append(conditions, "is_archived = FALSE")
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, rows.Err()
}

// Mutate locks the row, applies mutate and writes every mutable column back in
// one transaction, so concurrent read-modify-write sequences serialize on the row.
func (r *productRepository) Mutate(ctx context.Context, id int64, mutate ProductMutation) (*domain.Product, error) {
	const selectQuery = `SELECT ` + productColumns + ` FROM products WHERE id=$1 FOR UPDATE`
	const updateQuery = `
        UPDATE products SET name=$1, sku=$2, quantity=$3, price=$4, category=$5,
            description=$6, is_archived=$7, updated_at=$8
        WHERE id=$9`

	var product *domain.Product
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		locked, err := scanProduct(tx.QueryRow(ctx, selectQuery, id))
		if err != nil {
			return err
		}
		if err := mutate(locked); err != nil {
			return err
		}

		cmd, err := tx.Exec(ctx, updateQuery,
			locked.Name,
			locked.SKU,
			locked.Quantity,
			locked.Price,
			locked.Category,
			locked.Description,
			locked.IsArchived,
			locked.UpdatedAt,
			locked.ID,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		product = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM products WHERE id=$1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row scanner) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.SKU,
		&product.Quantity,
		&product.Price,
		&product.Category,
		&product.Description,
		&product.IsArchived,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
