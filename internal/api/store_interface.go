package api

import "github.com/ecohub/ecohub/internal/services"

// Store is the persistence surface the router's services need. Implemented
// by the in-memory store (tests, dev fallback) and the SQLite store.
type Store interface {
	AddUser(u *services.User) error
	FindUserByEmail(email string) (*services.User, error)
	GetUser(id string) (*services.User, error)

	// InsertEmission must enforce the (user, week identifier) uniqueness
	// invariant and return services.ErrDuplicateWeek on collision.
	InsertEmission(rec *services.EmissionRecord) error
	FindEmissionByUserWeek(userID, week string) (*services.EmissionRecord, error)
	ListEmissionsByUser(userID string, limit int) ([]*services.EmissionRecord, error)
	ListEmissionsByUserAsc(userID string) ([]*services.EmissionRecord, error)
	ListEmissionsByWeek(week string) ([]*services.EmissionRecord, error)
	ListEmissionsByMonth(month string) ([]*services.EmissionRecord, error)

	AddBrand(b *services.Brand) error
	GetBrandBySlug(slug string) (*services.Brand, error)
	ListBrands() ([]*services.Brand, error)
	AddProduct(p *services.Product) error
	GetProductBySlug(slug string) (*services.Product, error)
	ListProducts() ([]*services.Product, error)
	AddCategory(c *services.Category) error
	ListCategories() ([]*services.Category, error)
}

var _ Store = (*memoryStore)(nil)
