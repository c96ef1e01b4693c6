package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignTokenRoundTrip(t *testing.T) {
	tok, err := SignToken("u1", "Asha", "asha@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	claims, err := parseToken(tok)
	if err != nil {
		t.Fatalf("parseToken returned error: %v", err)
	}
	if claims.UID != "u1" || claims.Name != "Asha" || claims.Email != "asha@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tok, err := SignToken("u1", "Asha", "asha@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	if _, err := parseToken(tok); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}

func TestWithAuthAttachesClaims(t *testing.T) {
	tok, err := SignToken("u1", "Asha", "asha@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}

	var gotUID string
	var gotOK bool
	h := WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, gotOK = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !gotOK || gotUID != "u1" {
		t.Errorf("uid = %q ok = %v", gotUID, gotOK)
	}

	// No header: the request passes through unauthenticated.
	gotOK = true
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if gotOK {
		t.Error("expected no identity without a token")
	}

	// Garbage token: same.
	gotOK = true
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if gotOK {
		t.Error("expected no identity with a garbage token")
	}
}

func TestRequireAuth(t *testing.T) {
	called := false
	h := WithAuth(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if called || rec.Code != http.StatusUnauthorized {
		t.Errorf("called = %v, code = %d", called, rec.Code)
	}

	tok, err := SignToken("u1", "", "", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	if !called || rec.Code != http.StatusOK {
		t.Errorf("called = %v, code = %d", called, rec.Code)
	}
}
