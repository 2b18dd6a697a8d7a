package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/inventory-service/internal/domain"
)

var (
	userCols    = []string{"id", "username", "email", "hashed_password", "is_active", "is_admin"}
	productCols = []string{"id", "name", "sku", "quantity", "price", "category", "description", "is_archived", "created_at", "updated_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepositoryCreate(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "a@x.io", "hash", true, false).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	user := &domain.User{Username: "alice", Email: "a@x.io", HashedPassword: "hash", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(3), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateUniqueViolationRollsBack(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "a@x.io", "hash", true, false).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@x.io", HashedPassword: "hash", IsActive: true})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryLookups(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=$1")).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(1), "alice", "a@x.io", "hash", true, false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=$1 OR email=$2")).
		WithArgs("bob", "a@x.io").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(1), "alice", "a@x.io", "hash", true, false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=$1")).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(userCols))

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", user.Email)
	assert.Equal(t, "hash", user.HashedPassword)

	user, err = repo.FindByUsernameOrEmail(ctx, "bob", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = repo.GetByID(ctx, 9)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryCreate(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewProductRepository(mock)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &domain.Product{Name: "Widget", SKU: "W1", Quantity: 5, Price: 9.99, Category: domain.DefaultCategory, CreatedAt: now, UpdatedAt: now}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("Widget", "W1", int64(5), 9.99, domain.DefaultCategory, pgxmock.AnyArg(), false, now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(11), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryListBuildsFilters(t *testing.T) {
	t.Parallel()

	desc := "blue"
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	category := "Tools"

	tests := []struct {
		name   string
		filter domain.ProductFilter
		query  string
		args   []any
	}{
		{
			name:   "default hides archived",
			filter: domain.ProductFilter{},
			query:  "FROM products WHERE is_archived = FALSE ORDER BY id",
		},
		{
			name:   "category with archived",
			filter: domain.ProductFilter{Category: &category, IncludeArchived: true},
			query:  "FROM products WHERE category = $1 ORDER BY id",
			args:   []any{"Tools"},
		},
		{
			name:   "paged",
			filter: domain.ProductFilter{Category: &category, Limit: 10, Offset: 20},
			query:  "FROM products WHERE is_archived = FALSE AND category = $1 ORDER BY id LIMIT $2 OFFSET $3",
			args:   []any{"Tools", 10, 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewProductRepository(mock)

			expect := mock.ExpectQuery(regexp.QuoteMeta(tt.query) + "$")
			if len(tt.args) > 0 {
				expect = expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(pgxmock.NewRows(productCols).
				AddRow(int64(1), "Widget", "W1", int64(5), 9.99, "Tools", &desc, false, now, now))

			products, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, "W1", products[0].SKU)
			require.NotNil(t, products[0].Description)
			assert.Equal(t, "blue", *products[0].Description)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepositoryListEmpty(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewProductRepository(mock)
	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).WillReturnRows(pgxmock.NewRows(productCols))

	products, err := repo.List(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepositoryMutate(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewProductRepository(mock)
	desc := "blue"
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id=$1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(1), "Widget", "W1", int64(5), 9.99, "Tools", &desc, false, created, created))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET")).
		WithArgs("Widget", "W1", int64(5), 9.99, "Tools", pgxmock.AnyArg(), true, updated, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	product, err := repo.Mutate(context.Background(), 1, func(p *domain.Product) error {
		p.IsArchived = true
		p.UpdatedAt = updated
		return nil
	})
	require.NoError(t, err)
	assert.True(t, product.IsArchived)
	assert.Equal(t, updated, product.UpdatedAt)
	assert.Equal(t, created, product.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryMutateMissingRow(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(productCols))
	mock.ExpectRollback()

	called := false
	_, err := repo.Mutate(context.Background(), 404, func(*domain.Product) error {
		called = true
		return nil
	})
	assert.True(t, IsNotFound(err))
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryMutateAbortRollsBack(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewProductRepository(mock)
	desc := "blue"
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	abort := errors.New("abort")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(1), "Widget", "W1", int64(5), 9.99, "Tools", &desc, false, now, now))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), 1, func(*domain.Product) error { return abort })
	assert.ErrorIs(t, err, abort)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryDelete(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := NewProductRepository(mock)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id=$1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id=$1")).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 2), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.False(t, IsNotFound(errors.New("boom")))
}
