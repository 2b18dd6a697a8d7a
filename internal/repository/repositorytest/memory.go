// Package repositorytest provides in-memory repositories that mimic the
// Postgres error semantics (pgx.ErrNoRows, unique violations) for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/repository"
)

// UniqueViolation is returned when a username, email or sku is already taken.
var UniqueViolation = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

var (
	_ repository.UserRepository    = (*Users)(nil)
	_ repository.ProductRepository = (*Products)(nil)
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User

	// CreateErr, when set, fails every Create.
	CreateErr error
}

func NewUsers() *Users {
	return &Users{byID: map[int64]domain.User{}}
}

func (m *Users) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, u := range m.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return UniqueViolation
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.byID[user.ID] = *user
	return nil
}

func (m *Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (m *Users) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username })
}

func (m *Users) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username || u.Email == email })
}

func (m *Users) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// Update edits a stored user in place.
func (m *Users) Update(id int64, edit func(*domain.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID[id]
	edit(&u)
	m.byID[id] = u
}

// Products is an in-memory repository.ProductRepository. Mutate holds the
// store lock for the whole read-modify-write.
type Products struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Product
}

func NewProducts() *Products {
	return &Products{byID: map[int64]domain.Product{}}
}

func (m *Products) Create(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skuTaken(product.SKU, 0) {
		return UniqueViolation
	}
	m.nextID++
	product.ID = m.nextID
	m.byID[product.ID] = *product
	return nil
}

func (m *Products) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (m *Products) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(m.byID))
	for _, p := range m.byID {
		if !filter.IncludeArchived && p.IsArchived {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Product{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *Products) Mutate(_ context.Context, id int64, mutate repository.ProductMutation) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if err := mutate(&p); err != nil {
		return nil, err
	}
	if m.skuTaken(p.SKU, id) {
		return nil, UniqueViolation
	}
	m.byID[id] = p
	return &p, nil
}

func (m *Products) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *Products) skuTaken(sku string, except int64) bool {
	for id, p := range m.byID {
		if id != except && p.SKU == sku {
			return true
		}
	}
	return false
}
