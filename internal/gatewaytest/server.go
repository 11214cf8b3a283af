// Package gatewaytest is an in-process double of the hosted gateway, used by
// integration tests. It implements the auth endpoints, the per-entity REST
// surface with row security scoped to the token identity, and the two remote
// procedures (has_role, add_to_cart). Production code never imports it.
package gatewaytest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"kunstgalerie/internal/model"
)

// APIKey is the public key the fake expects on every request.
const APIKey = "test-anon-key"

type ctxKey int

const identityKey ctxKey = iota

// Server is one running fake gateway.
type Server struct {
	URL string
	DB  *gorm.DB

	ts     *httptest.Server
	secret []byte

	mu   sync.Mutex
	hits map[string]int
}

// New starts a fake gateway backed by a throwaway SQLite file. It is closed
// with the test.
func New(t *testing.T) *Server {
	t.Helper()
	db, err := gorm.Open(&sqlite.Dialector{DriverName: "sqlite", DSN: filepath.Join(t.TempDir(), "gateway.db")}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gateway db: %v", err)
	}
	if err := db.AutoMigrate(&userRow{}, &productRow{}, &imageRow{}, &cartRow{}, &likeRow{}, &roleRow{}); err != nil {
		t.Fatalf("migrate gateway db: %v", err)
	}
	s := &Server{DB: db, secret: []byte("gatewaytest-secret"), hits: map[string]int{}}
	s.ts = httptest.NewServer(s.router())
	s.URL = s.ts.URL
	t.Cleanup(s.ts.Close)
	return s
}

// Close shuts the HTTP listener down early, for tests that need an
// unreachable gateway. Safe to call before the automatic cleanup.
func (s *Server) Close() {
	s.ts.Close()
}

// Hits reports how many requests arrived under a path prefix. Lets tests
// assert that an operation was skipped client-side entirely.
func (s *Server) Hits(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for p, c := range s.hits {
		if strings.HasPrefix(p, prefix) {
			n += c
		}
	}
	return n
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)
	r.Use(s.requireAPIKey)

	r.Post("/auth/v1/signup", s.handleSignup)
	r.Post("/auth/v1/token", s.handleToken)
	r.Post("/auth/v1/logout", s.handleLogout)

	r.Route("/rest/v1", func(r chi.Router) {
		r.Use(s.withIdentity)
		r.Get("/products", s.listProducts)
		r.Post("/products", s.insertProduct)
		r.Delete("/products", s.deleteProduct)
		r.Get("/cart_items", s.listCart)
		r.Patch("/cart_items", s.updateCart)
		r.Delete("/cart_items", s.deleteCart)
		r.Get("/product_likes", s.listLikes)
		r.Post("/product_likes", s.insertLike)
		r.Delete("/product_likes", s.deleteLike)
		r.Get("/profiles", s.listProfiles)
		r.Post("/user_roles", s.upsertRole)
		r.Delete("/user_roles", s.deleteRole)
		r.Post("/rpc/has_role", s.rpcHasRole)
		r.Post("/rpc/add_to_cart", s.rpcAddToCart)
	})
	return r
}

// --- middleware ---

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != APIKey {
			writeErr(w, http.StatusUnauthorized, "No API key found in request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withIdentity parses the bearer token when present. A malformed token is
// rejected; absence just leaves the request anonymous, individual handlers
// decide whether that is enough.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		sub, _ := tok.Claims.GetSubject()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, sub)))
	})
}

// --- auth ---

type credentials struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		writeErr(w, http.StatusBadRequest, "email and password are required")
		return
	}
	var existing userRow
	if err := s.DB.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		writeErr(w, http.StatusUnprocessableEntity, "User already registered")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	u := userRow{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.Data["first_name"],
		LastName:     in.Data["last_name"],
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.DB.Create(&u).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeSession(w, u)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeErr(w, http.StatusBadRequest, "unsupported grant type")
		return
	}
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	var u userRow
	if err := s.DB.Where("email = ?", in.Email).First(&u).Error; err != nil {
		writeErr(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		writeErr(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	s.writeSession(w, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeSession(w http.ResponseWriter, u userRow) {
	exp := time.Now().Add(time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"exp":   exp.Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": signed,
		"expires_in":   int64(time.Until(exp).Seconds()),
		"user":         map[string]string{"id": u.ID, "email": u.Email},
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// eqParam extracts the value of an "eq." filter like id=eq.<v>.
func eqParam(r *http.Request, name string) string {
	v := r.URL.Query().Get(name)
	return strings.TrimPrefix(v, "eq.")
}

func identityOf(r *http.Request) string {
	if v, ok := r.Context().Value(identityKey).(string); ok {
		return v
	}
	return ""
}

func (s *Server) isAdmin(userID string) bool {
	if userID == "" {
		return false
	}
	var row roleRow
	err := s.DB.Where("user_id = ? AND role = ?", userID, model.RoleAdmin).First(&row).Error
	return err == nil
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := identityOf(r)
	if id == "" {
		writeErr(w, http.StatusUnauthorized, "JWT required")
		return "", false
	}
	return id, true
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := s.requireUser(w, r)
	if !ok {
		return "", false
	}
	if !s.isAdmin(id) {
		writeErr(w, http.StatusForbidden, "permission denied")
		return "", false
	}
	return id, true
}
