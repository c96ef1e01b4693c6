package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const defaultProductLimit = 50

// CatalogStore persists the hand-curated brand/product catalog.
type CatalogStore interface {
	AddBrand(b *Brand) error
	GetBrandBySlug(slug string) (*Brand, error)
	ListBrands() ([]*Brand, error)
	AddProduct(p *Product) error
	GetProductBySlug(slug string) (*Product, error)
	ListProducts() ([]*Product, error)
	AddCategory(c *Category) error
	ListCategories() ([]*Category, error)
}

// CatalogService serves the read-mostly brand/product catalog. Curation
// endpoints validate payloads with go-playground/validator.
type CatalogService struct {
	store    CatalogStore
	validate *validator.Validate
	idGen    func() string
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:    store,
		validate: validator.New(),
		idGen:    func() string { return shortID(8) },
	}
}

// BrandFilter narrows ListBrands. Query matches name and description,
// case-insensitively.
type BrandFilter struct {
	Featured bool
	Query    string
}

func (s *CatalogService) ListBrands(f BrandFilter) ([]*Brand, error) {
	brands, err := s.store.ListBrands()
	if err != nil {
		return nil, err
	}
	out := make([]*Brand, 0, len(brands))
	for _, b := range brands {
		if f.Featured && !b.Featured {
			continue
		}
		if f.Query != "" && !matchesQuery(f.Query, b.Name, b.Description) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *CatalogService) GetBrand(slug string) (*Brand, error) {
	b, err := s.store.GetBrandBySlug(slug)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, NewNotFoundError("Brand not found")
	}
	return b, nil
}

// ProductFilter narrows ListProducts. Query matches name, description and
// tags; Packaging is a substring match on the packaging type.
type ProductFilter struct {
	Category  string
	Brand     string
	Packaging string
	Featured  bool
	Query     string
	Limit     int
}

// BrandRef is the brand summary attached to product views.
type BrandRef struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Logo    string `json:"logo,omitempty"`
	Website string `json:"website,omitempty"`
}

// ProductView is a product with its brand summary resolved.
type ProductView struct {
	Product
	Brand *BrandRef `json:"brand,omitempty"`
}

func (s *CatalogService) ListProducts(f ProductFilter) ([]*ProductView, error) {
	products, err := s.store.ListProducts()
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	filtered := make([]*Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.CategorySlug != f.Category {
			continue
		}
		if f.Brand != "" && p.BrandSlug != f.Brand {
			continue
		}
		if f.Packaging != "" && !strings.Contains(strings.ToLower(p.PackagingType), strings.ToLower(f.Packaging)) {
			continue
		}
		if f.Featured && !p.Featured {
			continue
		}
		if f.Query != "" && !matchesQuery(f.Query, append([]string{p.Name, p.Description}, p.Tags...)...) {
			continue
		}
		filtered = append(filtered, p)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Featured != filtered[j].Featured {
			return filtered[i].Featured
		}
		return filtered[i].EcoScore > filtered[j].EcoScore
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	out := make([]*ProductView, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, s.productView(p))
	}
	return out, nil
}

func (s *CatalogService) GetProduct(slug string) (*ProductView, error) {
	p, err := s.store.GetProductBySlug(slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("Product not found")
	}
	return s.productView(p), nil
}

func (s *CatalogService) ListCategories() ([]*Category, error) {
	cats, err := s.store.ListCategories()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (s *CatalogService) productView(p *Product) *ProductView {
	view := &ProductView{Product: *p}
	if b, err := s.store.GetBrandBySlug(p.BrandSlug); err == nil && b != nil {
		view.Brand = &BrandRef{Name: b.Name, Slug: b.Slug, Logo: b.Logo, Website: b.Website}
	}
	return view
}

// NewBrand is the curation payload for adding a brand.
type NewBrand struct {
	Name                    string                   `json:"name" validate:"required"`
	Slug                    string                   `json:"slug" validate:"required,lowercase"`
	Description             string                   `json:"description"`
	Logo                    string                   `json:"logo" validate:"omitempty,url"`
	Website                 string                   `json:"website" validate:"omitempty,url"`
	SustainabilityPractices []SustainabilityPractice `json:"sustainabilityPractices"`
	PackagingTypes          []string                 `json:"packagingTypes"`
	CarbonNeutral           bool                     `json:"carbonNeutral"`
	Certified               []string                 `json:"certified"`
	Featured                bool                     `json:"featured"`
}

func (s *CatalogService) CreateBrand(in NewBrand) (*Brand, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, NewInvalidError(validationMessage(err))
	}
	existing, err := s.store.GetBrandBySlug(in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("brand slug exists")
	}
	b := &Brand{
		ID:                      s.idGen(),
		Name:                    in.Name,
		Slug:                    in.Slug,
		Description:             in.Description,
		Logo:                    in.Logo,
		Website:                 in.Website,
		SustainabilityPractices: in.SustainabilityPractices,
		PackagingTypes:          in.PackagingTypes,
		CarbonNeutral:           in.CarbonNeutral,
		Certified:               in.Certified,
		Featured:                in.Featured,
	}
	if err := s.store.AddBrand(b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewProduct is the curation payload for adding a product.
type NewProduct struct {
	Name          string   `json:"name" validate:"required"`
	Slug          string   `json:"slug" validate:"required,lowercase"`
	Description   string   `json:"description"`
	Image         string   `json:"image" validate:"omitempty,url"`
	Price         float64  `json:"price" validate:"omitempty,gte=0"`
	Currency      string   `json:"currency" validate:"omitempty,len=3"`
	BuyURL        string   `json:"buyUrl" validate:"omitempty,url"`
	BrandSlug     string   `json:"brandSlug" validate:"required"`
	CategorySlug  string   `json:"categorySlug" validate:"required"`
	PackagingType string   `json:"packagingType"`
	EcoScore      int      `json:"ecoScore" validate:"omitempty,min=1,max=10"`
	Tags          []string `json:"tags"`
	Featured      bool     `json:"featured"`
}

func (s *CatalogService) CreateProduct(in NewProduct) (*ProductView, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, NewInvalidError(validationMessage(err))
	}
	brand, err := s.store.GetBrandBySlug(in.BrandSlug)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, NewInvalidError("unknown brand slug")
	}
	existing, err := s.store.GetProductBySlug(in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("product slug exists")
	}
	p := &Product{
		ID:            s.idGen(),
		Name:          in.Name,
		Slug:          in.Slug,
		Description:   in.Description,
		Image:         in.Image,
		Price:         in.Price,
		Currency:      in.Currency,
		BuyURL:        in.BuyURL,
		BrandSlug:     in.BrandSlug,
		CategorySlug:  in.CategorySlug,
		PackagingType: in.PackagingType,
		EcoScore:      in.EcoScore,
		Tags:          in.Tags,
		Featured:      in.Featured,
	}
	if err := s.store.AddProduct(p); err != nil {
		return nil, err
	}
	return s.productView(p), nil
}

func matchesQuery(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
