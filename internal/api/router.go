package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ecohub/ecohub/internal/middleware"
	"github.com/ecohub/ecohub/internal/services"
)

type Router struct {
	store    Store
	auth     *services.AuthService
	emission *services.EmissionService
	ranking  *services.RankingService
	catalog  *services.CatalogService
}

func NewRouter(store Store) *Router {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Router{
		store:    store,
		auth:     services.NewAuthService(store, middleware.SignToken),
		emission: services.NewEmissionService(store),
		ranking:  services.NewRankingService(store),
		catalog:  services.NewCatalogService(store),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST

	mux.HandleFunc("/api/brands", rt.handleBrands)     // GET, POST
	mux.HandleFunc("/api/brands/", rt.handleBrand)     // GET /api/brands/{slug}
	mux.HandleFunc("/api/products", rt.handleProducts) // GET, POST
	mux.HandleFunc("/api/products/", rt.handleProduct) // GET /api/products/{slug}
	mux.HandleFunc("/api/categories", rt.handleCategories)

	mux.HandleFunc("/api/carbon/calculate", rt.handleCalculate)      // POST
	mux.HandleFunc("/api/carbon/my-emissions", rt.handleMyEmissions) // GET
	mux.HandleFunc("/api/carbon/latest", rt.handleLatest)            // GET
	mux.HandleFunc("/api/carbon/stats", rt.handleStats)              // GET
	mux.HandleFunc("/api/carbon/predictions", rt.handlePredictions)  // GET
	mux.HandleFunc("/api/carbon/rankings", rt.handleRankings)        // GET
	mux.HandleFunc("/api/carbon/monthly-rewards", rt.handleRewards)  // GET
	mux.HandleFunc("/api/carbon/export", rt.handleExport)            // GET
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps pipeline rejections and service errors onto HTTP statuses.
// Anything unrecognized is a dependency failure and stays opaque.
func writeError(w http.ResponseWriter, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, ve)
		return
	}
	if rl, ok := services.AsRateLimitedError(err); ok {
		writeJSON(w, http.StatusTooManyRequests, rl)
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorTooManyRequests:
			status = http.StatusTooManyRequests
		case services.ErrorUnavailable:
			status = http.StatusServiceUnavailable
		}
		writeMessage(w, status, se.Message)
		return
	}
	writeMessage(w, http.StatusInternalServerError, "Server error")
}

// userID extracts the authenticated user or answers 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized. Please log in.")
		return "", false
	}
	return uid, true
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := rt.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": res.Token, "userId": res.UserID, "name": res.Name, "email": res.Email,
	})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": res.Token, "userId": res.UserID, "name": res.Name, "email": res.Email,
	})
}

// GET /api/brands?featured=true&q=...  |  POST /api/brands (auth)
func (rt *Router) handleBrands(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		brands, err := rt.catalog.ListBrands(services.BrandFilter{
			Featured: r.URL.Query().Get("featured") == "true",
			Query:    r.URL.Query().Get("q"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, brands)
	case http.MethodPost:
		if _, ok := userID(w, r); !ok {
			return
		}
		var in services.NewBrand
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		b, err := rt.catalog.CreateBrand(in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/brands/{slug}
func (rt *Router) handleBrand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/api/brands/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	b, err := rt.catalog.GetBrand(slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GET /api/products?category=&brand=&packaging=&featured=&q=&limit=  |  POST (auth)
func (rt *Router) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		products, err := rt.catalog.ListProducts(services.ProductFilter{
			Category:  r.URL.Query().Get("category"),
			Brand:     r.URL.Query().Get("brand"),
			Packaging: r.URL.Query().Get("packaging"),
			Featured:  r.URL.Query().Get("featured") == "true",
			Query:     r.URL.Query().Get("q"),
			Limit:     limit,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	case http.MethodPost:
		if _, ok := userID(w, r); !ok {
			return
		}
		var in services.NewProduct
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := rt.catalog.CreateProduct(in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/products/{slug}
func (rt *Router) handleProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	p, err := rt.catalog.GetProduct(slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /api/categories
func (rt *Router) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cats, err := rt.catalog.ListCategories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// POST /api/carbon/calculate runs the survey submission pipeline.
func (rt *Router) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var input services.SurveyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := rt.emission.Submit(uid, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*services.EmissionRecord
		Message string `json:"message"`
	}{rec, "Carbon emission calculated and saved successfully"})
}

// GET /api/carbon/my-emissions returns the last 12 entries, newest first.
func (rt *Router) handleMyEmissions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	recs, err := rt.emission.History(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// GET /api/carbon/latest
func (rt *Router) handleLatest(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	rec, err := rt.emission.Latest(uid)
	if err != nil {
		// An empty history is answered with a hint, not an error.
		if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorNotFound {
			writeMessage(w, http.StatusOK, se.Message)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GET /api/carbon/stats
func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	stats, err := rt.emission.Stats(uid)
	if err != nil {
		if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorNotFound {
			writeMessage(w, http.StatusOK, se.Message)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /api/carbon/predictions?months=N
func (rt *Router) handlePredictions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	pred, err := rt.emission.Predictions(uid, months)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

// GET /api/carbon/rankings?week=YYYY-MM-DD
func (rt *Router) handleRankings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	ranking, err := rt.ranking.WeeklyRanking(uid, r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// GET /api/carbon/monthly-rewards?month=YYYY-MM
func (rt *Router) handleRewards(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	rewards, err := rt.ranking.MonthlyRewards(uid, r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

// GET /api/carbon/export streams the user's history as CSV.
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	recs, err := rt.emission.History(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := services.ExportHistoryCSV(recs)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=emissions.csv")
	_, _ = w.Write(b)
}
