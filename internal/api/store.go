package api

import (
	"sort"
	"sync"

	"github.com/ecohub/ecohub/internal/services"
)

// memoryStore keeps everything in process. It backs unit tests and serves as
// a dev fallback when no SQLite path is configured.
type memoryStore struct {
	mu           sync.RWMutex
	usersByID    map[string]*services.User
	usersByEmail map[string]*services.User
	emissions    []*services.EmissionRecord
	byUserWeek   map[[2]string]*services.EmissionRecord
	brands       map[string]*services.Brand
	products     map[string]*services.Product
	categories   map[string]*services.Category
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		usersByID:    map[string]*services.User{},
		usersByEmail: map[string]*services.User{},
		emissions:    []*services.EmissionRecord{},
		byUserWeek:   map[[2]string]*services.EmissionRecord{},
		brands:       map[string]*services.Brand{},
		products:     map[string]*services.Product{},
		categories:   map[string]*services.Category{},
	}
}

func (s *memoryStore) AddUser(u *services.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByID[u.ID] = u
	s.usersByEmail[u.Email] = u
	return nil
}

func (s *memoryStore) FindUserByEmail(email string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[email], nil
}

func (s *memoryStore) GetUser(id string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByID[id], nil
}

func (s *memoryStore) InsertEmission(rec *services.EmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{rec.UserID, rec.WeekIdentifier}
	if _, exists := s.byUserWeek[key]; exists {
		return services.ErrDuplicateWeek
	}
	s.byUserWeek[key] = rec
	s.emissions = append(s.emissions, rec)
	return nil
}

func (s *memoryStore) FindEmissionByUserWeek(userID, week string) (*services.EmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byUserWeek[[2]string{userID, week}], nil
}

func (s *memoryStore) ListEmissionsByUser(userID string, limit int) ([]*services.EmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.EmissionRecord{}
	for _, r := range s.emissions {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) ListEmissionsByUserAsc(userID string) ([]*services.EmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.EmissionRecord{}
	for _, r := range s.emissions {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *memoryStore) ListEmissionsByWeek(week string) ([]*services.EmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.EmissionRecord{}
	for _, r := range s.emissions {
		if r.WeekIdentifier == week {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) ListEmissionsByMonth(month string) ([]*services.EmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.EmissionRecord{}
	for _, r := range s.emissions {
		if r.MonthIdentifier == month {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) AddBrand(b *services.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands[b.Slug] = b
	return nil
}

func (s *memoryStore) GetBrandBySlug(slug string) (*services.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brands[slug], nil
}

func (s *memoryStore) ListBrands() ([]*services.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, b)
	}
	return out, nil
}

func (s *memoryStore) AddProduct(p *services.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Slug] = p
	return nil
}

func (s *memoryStore) GetProductBySlug(slug string) (*services.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products[slug], nil
}

func (s *memoryStore) ListProducts() ([]*services.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *memoryStore) AddCategory(c *services.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.Slug] = c
	return nil
}

func (s *memoryStore) ListCategories() ([]*services.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}
