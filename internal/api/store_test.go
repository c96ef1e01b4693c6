package api

import (
	"errors"
	"testing"
	"time"

	"github.com/ecohub/ecohub/internal/services"
)

func TestMemoryStoreEnforcesWeekUniqueness(t *testing.T) {
	store := NewMemoryStore()
	rec := &services.EmissionRecord{
		ID: "e1", UserID: "u1", WeekIdentifier: "2025-03-10",
		Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	if err := store.InsertEmission(rec); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	dup := &services.EmissionRecord{ID: "e2", UserID: "u1", WeekIdentifier: "2025-03-10"}
	if err := store.InsertEmission(dup); !errors.Is(err, services.ErrDuplicateWeek) {
		t.Fatalf("second insert err = %v, want ErrDuplicateWeek", err)
	}

	// Same week, different user is fine.
	other := &services.EmissionRecord{ID: "e3", UserID: "u2", WeekIdentifier: "2025-03-10"}
	if err := store.InsertEmission(other); err != nil {
		t.Fatalf("other-user insert failed: %v", err)
	}

	found, err := store.FindEmissionByUserWeek("u1", "2025-03-10")
	if err != nil || found == nil || found.ID != "e1" {
		t.Fatalf("find = %v, %v", found, err)
	}
	missing, err := store.FindEmissionByUserWeek("u1", "2025-03-17")
	if err != nil || missing != nil {
		t.Fatalf("expected no record, got %v, %v", missing, err)
	}
}

func TestMemoryStoreListOrderingAndLimit(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		d := base.AddDate(0, 0, 7*i)
		err := store.InsertEmission(&services.EmissionRecord{
			ID: d.Format("20060102"), UserID: "u1",
			Date: d, WeekIdentifier: services.WeekIdentifier(d), MonthIdentifier: services.MonthIdentifier(d),
		})
		if err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	desc, err := store.ListEmissionsByUser("u1", 3)
	if err != nil {
		t.Fatalf("ListEmissionsByUser failed: %v", err)
	}
	if len(desc) != 3 {
		t.Fatalf("limited list = %d, want 3", len(desc))
	}
	if !desc[0].Date.After(desc[1].Date) || !desc[1].Date.After(desc[2].Date) {
		t.Error("list not newest first")
	}

	asc, err := store.ListEmissionsByUserAsc("u1")
	if err != nil {
		t.Fatalf("ListEmissionsByUserAsc failed: %v", err)
	}
	if len(asc) != 5 {
		t.Fatalf("asc list = %d, want 5", len(asc))
	}
	if !asc[0].Date.Before(asc[4].Date) {
		t.Error("asc list not oldest first")
	}

	byWeek, err := store.ListEmissionsByWeek("2025-01-06")
	if err != nil || len(byWeek) != 1 {
		t.Fatalf("byWeek = %d, %v; want 1", len(byWeek), err)
	}
	byMonth, err := store.ListEmissionsByMonth("2025-01")
	if err != nil || len(byMonth) != 4 {
		t.Fatalf("byMonth = %d, %v; want 4", len(byMonth), err)
	}
}

func TestMemoryStoreCatalog(t *testing.T) {
	store := NewMemoryStore()
	if err := store.AddBrand(&services.Brand{ID: "b1", Name: "Acme", Slug: "acme"}); err != nil {
		t.Fatalf("AddBrand failed: %v", err)
	}
	if err := store.AddProduct(&services.Product{ID: "p1", Name: "Soap", Slug: "soap", BrandSlug: "acme"}); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if err := store.AddCategory(&services.Category{ID: "c1", Name: "Care", Slug: "care"}); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}

	b, err := store.GetBrandBySlug("acme")
	if err != nil || b == nil || b.Name != "Acme" {
		t.Fatalf("brand = %v, %v", b, err)
	}
	p, err := store.GetProductBySlug("soap")
	if err != nil || p == nil || p.BrandSlug != "acme" {
		t.Fatalf("product = %v, %v", p, err)
	}
	cats, err := store.ListCategories()
	if err != nil || len(cats) != 1 {
		t.Fatalf("categories = %d, %v", len(cats), err)
	}
}
