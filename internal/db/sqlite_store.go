package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/ecohub/ecohub/internal/api"
	"github.com/ecohub/ecohub/internal/services"
)

// SQLiteStore implements api.Store on a SQLite database. The emissions table
// carries a UNIQUE(user_id, week_identifier) index, so the weekly-submission
// invariant holds even under concurrent inserts.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewSQLiteStore(db *sql.DB, log *logrus.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

// NewStore returns the SQLite-backed api.Store.
func NewStore(db *sql.DB, log *logrus.Logger) (api.Store, error) {
	return NewSQLiteStore(db, log)
}

var _ api.Store = (*SQLiteStore)(nil)

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func (s *SQLiteStore) decodeStringSlice(ns sql.NullString) []string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		s.log.WithError(err).Warn("sqlite store: decode string slice")
		return nil
	}
	return out
}

func (s *SQLiteStore) decodePractices(ns sql.NullString) []services.SustainabilityPractice {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []services.SustainabilityPractice
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		s.log.WithError(err).Warn("sqlite store: decode practices")
		return nil
	}
	return out
}

// --- Users ---

func (s *SQLiteStore) AddUser(u *services.User) error {
	_, err := s.db.Exec(`INSERT INTO users (id, name, email, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PassHash, u.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return services.NewConflictError("email exists")
	}
	return err
}

func (s *SQLiteStore) FindUserByEmail(email string) (*services.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, name, email, pass_hash, created_at FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) GetUser(id string) (*services.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, name, email, pass_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*services.User, error) {
	var u services.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PassHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Emissions ---

const emissionColumns = `id, user_id, date, week_identifier, month_identifier,
	car_km, public_transport_km, flights, electricity_kwh, lpg_cylinders,
	meat_meals, vegetarian_meals, plastic_items, recycling_rate,
	total_emissions, cat_transportation, cat_energy, cat_food, cat_waste,
	score, feedback, recommendations`

func (s *SQLiteStore) InsertEmission(rec *services.EmissionRecord) error {
	recs, err := encodeJSON(rec.Recommendations)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO emissions (`+emissionColumns+`) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Date, rec.WeekIdentifier, rec.MonthIdentifier,
		rec.CarKm, rec.PublicTransportKm, rec.Flights, rec.ElectricityKwh, rec.LpgCylinders,
		rec.MeatMeals, rec.VegetarianMeals, rec.PlasticItems, rec.RecyclingRate,
		rec.TotalEmissions, rec.CategoryBreakdown.Transportation, rec.CategoryBreakdown.Energy,
		rec.CategoryBreakdown.Food, rec.CategoryBreakdown.Waste,
		rec.Score, rec.Feedback, recs)
	if err != nil && isUniqueViolation(err) {
		return services.ErrDuplicateWeek
	}
	return err
}

func (s *SQLiteStore) FindEmissionByUserWeek(userID, week string) (*services.EmissionRecord, error) {
	rows, err := s.db.Query(`SELECT `+emissionColumns+` FROM emissions
		WHERE user_id = ? AND week_identifier = ? LIMIT 1`, userID, week)
	if err != nil {
		return nil, err
	}
	recs, err := s.collectEmissions(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

func (s *SQLiteStore) ListEmissionsByUser(userID string, limit int) ([]*services.EmissionRecord, error) {
	q := `SELECT ` + emissionColumns + ` FROM emissions WHERE user_id = ? ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	return s.collectEmissions(rows)
}

func (s *SQLiteStore) ListEmissionsByUserAsc(userID string) ([]*services.EmissionRecord, error) {
	rows, err := s.db.Query(`SELECT `+emissionColumns+` FROM emissions
		WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, err
	}
	return s.collectEmissions(rows)
}

func (s *SQLiteStore) ListEmissionsByWeek(week string) ([]*services.EmissionRecord, error) {
	rows, err := s.db.Query(`SELECT `+emissionColumns+` FROM emissions
		WHERE week_identifier = ?`, week)
	if err != nil {
		return nil, err
	}
	return s.collectEmissions(rows)
}

func (s *SQLiteStore) ListEmissionsByMonth(month string) ([]*services.EmissionRecord, error) {
	rows, err := s.db.Query(`SELECT `+emissionColumns+` FROM emissions
		WHERE month_identifier = ? ORDER BY date ASC`, month)
	if err != nil {
		return nil, err
	}
	return s.collectEmissions(rows)
}

func (s *SQLiteStore) collectEmissions(rows *sql.Rows) ([]*services.EmissionRecord, error) {
	defer rows.Close()
	out := []*services.EmissionRecord{}
	for rows.Next() {
		var rec services.EmissionRecord
		var recsJSON sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.WeekIdentifier, &rec.MonthIdentifier,
			&rec.CarKm, &rec.PublicTransportKm, &rec.Flights, &rec.ElectricityKwh, &rec.LpgCylinders,
			&rec.MeatMeals, &rec.VegetarianMeals, &rec.PlasticItems, &rec.RecyclingRate,
			&rec.TotalEmissions, &rec.CategoryBreakdown.Transportation, &rec.CategoryBreakdown.Energy,
			&rec.CategoryBreakdown.Food, &rec.CategoryBreakdown.Waste,
			&rec.Score, &rec.Feedback, &recsJSON,
		); err != nil {
			return nil, err
		}
		rec.Recommendations = s.decodeStringSlice(recsJSON)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// --- Catalog ---

func (s *SQLiteStore) AddBrand(b *services.Brand) error {
	practices, err := encodeJSON(b.SustainabilityPractices)
	if err != nil {
		return err
	}
	packaging, err := encodeJSON(b.PackagingTypes)
	if err != nil {
		return err
	}
	certified, err := encodeJSON(b.Certified)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO brands
		(id, name, slug, description, logo, website, practices, packaging_types, carbon_neutral, certified, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO NOTHING`,
		b.ID, b.Name, b.Slug, b.Description, b.Logo, b.Website,
		practices, packaging, boolToInt(b.CarbonNeutral), certified, boolToInt(b.Featured))
	return err
}

func (s *SQLiteStore) GetBrandBySlug(slug string) (*services.Brand, error) {
	rows, err := s.db.Query(brandSelect+` WHERE slug = ? LIMIT 1`, slug)
	if err != nil {
		return nil, err
	}
	brands, err := s.collectBrands(rows)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, nil
	}
	return brands[0], nil
}

func (s *SQLiteStore) ListBrands() ([]*services.Brand, error) {
	rows, err := s.db.Query(brandSelect)
	if err != nil {
		return nil, err
	}
	return s.collectBrands(rows)
}

const brandSelect = `SELECT id, name, slug, description, logo, website,
	practices, packaging_types, carbon_neutral, certified, featured FROM brands`

func (s *SQLiteStore) collectBrands(rows *sql.Rows) ([]*services.Brand, error) {
	defer rows.Close()
	out := []*services.Brand{}
	for rows.Next() {
		var b services.Brand
		var practices, packaging, certified sql.NullString
		var carbonNeutral, featured int64
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.Logo, &b.Website,
			&practices, &packaging, &carbonNeutral, &certified, &featured); err != nil {
			return nil, err
		}
		b.SustainabilityPractices = s.decodePractices(practices)
		b.PackagingTypes = s.decodeStringSlice(packaging)
		b.Certified = s.decodeStringSlice(certified)
		b.CarbonNeutral = carbonNeutral != 0
		b.Featured = featured != 0
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddProduct(p *services.Product) error {
	tags, err := encodeJSON(p.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO products
		(id, name, slug, description, image, price, currency, buy_url, brand_slug, category_slug, packaging_type, eco_score, tags, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO NOTHING`,
		p.ID, p.Name, p.Slug, p.Description, p.Image, p.Price, p.Currency, p.BuyURL,
		p.BrandSlug, p.CategorySlug, p.PackagingType, p.EcoScore, tags, boolToInt(p.Featured))
	return err
}

func (s *SQLiteStore) GetProductBySlug(slug string) (*services.Product, error) {
	rows, err := s.db.Query(productSelect+` WHERE slug = ? LIMIT 1`, slug)
	if err != nil {
		return nil, err
	}
	products, err := s.collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return products[0], nil
}

func (s *SQLiteStore) ListProducts() ([]*services.Product, error) {
	rows, err := s.db.Query(productSelect)
	if err != nil {
		return nil, err
	}
	return s.collectProducts(rows)
}

const productSelect = `SELECT id, name, slug, description, image, price, currency,
	buy_url, brand_slug, category_slug, packaging_type, eco_score, tags, featured FROM products`

func (s *SQLiteStore) collectProducts(rows *sql.Rows) ([]*services.Product, error) {
	defer rows.Close()
	out := []*services.Product{}
	for rows.Next() {
		var p services.Product
		var tags sql.NullString
		var featured int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Image, &p.Price, &p.Currency,
			&p.BuyURL, &p.BrandSlug, &p.CategorySlug, &p.PackagingType, &p.EcoScore, &tags, &featured); err != nil {
			return nil, err
		}
		p.Tags = s.decodeStringSlice(tags)
		p.Featured = featured != 0
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddCategory(c *services.Category) error {
	_, err := s.db.Exec(`INSERT INTO categories (id, name, slug, description)
		VALUES (?, ?, ?, ?) ON CONFLICT(slug) DO NOTHING`,
		c.ID, c.Name, c.Slug, c.Description)
	return err
}

func (s *SQLiteStore) ListCategories() ([]*services.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, slug, description FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*services.Category{}
	for rows.Next() {
		var c services.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
