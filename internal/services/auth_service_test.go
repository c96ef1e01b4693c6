package services

import (
	"testing"
	"time"
)

type stubAuthStore struct {
	byEmail map[string]*User
}

func (s *stubAuthStore) FindUserByEmail(email string) (*User, error) {
	return s.byEmail[email], nil
}

func (s *stubAuthStore) AddUser(u *User) error {
	s.byEmail[u.Email] = u
	return nil
}

func testSigner(uid, name, email string, ttl time.Duration) (string, error) {
	return "token-" + uid, nil
}

func TestRegisterCreatesUser(t *testing.T) {
	store := &stubAuthStore{byEmail: map[string]*User{}}
	svc := NewAuthService(store, testSigner)
	svc.idGen = func(prefix string, n int) string { return prefix + "1234567" }
	svc.now = func() time.Time { return time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) }

	res, err := svc.Register("Asha", "asha@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.UserID != "u1234567" {
		t.Errorf("userID = %s", res.UserID)
	}
	if res.Token != "token-u1234567" {
		t.Errorf("token = %s", res.Token)
	}
	u := store.byEmail["asha@example.com"]
	if u == nil {
		t.Fatal("user not stored")
	}
	if len(u.PassHash) == 0 {
		t.Error("password hash not stored")
	}
	if string(u.PassHash) == "hunter22" {
		t.Error("password stored in clear")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &stubAuthStore{byEmail: map[string]*User{
		"asha@example.com": {ID: "u1", Email: "asha@example.com"},
	}}
	svc := NewAuthService(store, testSigner)

	_, err := svc.Register("Asha", "asha@example.com", "hunter22")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{byEmail: map[string]*User{}}, testSigner)
	for _, tc := range [][2]string{{"", "pw"}, {"a@b.c", ""}, {"a@b.c", "   "}} {
		_, err := svc.Register("n", tc[0], tc[1])
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorInvalid {
			t.Errorf("email=%q password=%q: expected invalid, got %v", tc[0], tc[1], err)
		}
	}
}

func TestLoginRoundTrip(t *testing.T) {
	store := &stubAuthStore{byEmail: map[string]*User{}}
	svc := NewAuthService(store, testSigner)

	if _, err := svc.Register("Asha", "asha@example.com", "hunter22"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	res, err := svc.Login("asha@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Email != "asha@example.com" || res.Name != "Asha" {
		t.Errorf("result = %+v", res)
	}
	if res.Token == "" {
		t.Error("empty token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := &stubAuthStore{byEmail: map[string]*User{}}
	svc := NewAuthService(store, testSigner)
	if _, err := svc.Register("Asha", "asha@example.com", "hunter22"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, err := svc.Login("asha@example.com", "wrong")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{byEmail: map[string]*User{}}, testSigner)
	_, err := svc.Login("ghost@example.com", "pw")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
