package gatewaytest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kunstgalerie/internal/model"
)

// MustSeedProduct inserts a catalog row (images included) and returns it with
// IDs filled in. CreatedAt is staggered so insertion order is the newest-last
// order tests can rely on.
func (s *Server) MustSeedProduct(t *testing.T, p model.Product) model.Product {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		var n int64
		s.DB.Model(&productRow{}).Count(&n)
		p.CreatedAt = time.Now().UTC().Add(time.Duration(n) * time.Millisecond)
	}
	row := productRow{
		ID:              p.ID,
		Title:           p.Title,
		Artist:          p.Artist,
		Price:           p.Price,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Year:            p.Year,
		Dimensions:      p.Dimensions,
		Technique:       p.Technique,
		Category:        p.Category,
		InStock:         p.InStock,
		CreatedAt:       p.CreatedAt,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	for i := range p.Images {
		img := &p.Images[i]
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		img.ProductID = p.ID
		if err := s.DB.Create(&imageRow{
			ID: img.ID, ProductID: p.ID, ImageRef: img.ImageRef, IsPrimary: img.IsPrimary,
		}).Error; err != nil {
			t.Fatalf("seed product image: %v", err)
		}
	}
	return p
}

// MustCreateUser registers a user directly in the store and returns its id.
func (s *Server) MustCreateUser(t *testing.T, email, password, firstName, lastName string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := userRow{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.DB.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

// MustMakeAdmin grants the admin role row to a user.
func (s *Server) MustMakeAdmin(t *testing.T, userID string) {
	t.Helper()
	if err := s.DB.Create(&roleRow{UserID: userID, Role: model.RoleAdmin}).Error; err != nil {
		t.Fatalf("seed admin role: %v", err)
	}
}
