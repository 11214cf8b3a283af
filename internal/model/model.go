package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance used for ingress checks.
var validate = validator.New()

// Product is a single artwork in the catalog.
type Product struct {
	ID              string         `json:"id" validate:"required"`
	Title           string         `json:"title" validate:"required"`
	Artist          string         `json:"artist"`
	Price           float64        `json:"price" validate:"gte=0"`
	Description     string         `json:"description"`
	LongDescription string         `json:"long_description"`
	Year            *int           `json:"year,omitempty"`
	Dimensions      string         `json:"dimensions,omitempty"`
	Technique       string         `json:"technique,omitempty"`
	Category        string         `json:"category,omitempty"`
	InStock         bool           `json:"in_stock"`
	Images          []ProductImage `json:"product_images,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ProductImage references one image of a product. ImageRef is an opaque
// identifier resolved to a URL by the rendering side.
type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	ImageRef  string `json:"image_ref" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// PrimaryImage returns the image to treat as representative: the one flagged
// primary, otherwise the first in returned order. ok is false when the
// product has no images at all.
func (p Product) PrimaryImage() (img ProductImage, ok bool) {
	for _, im := range p.Images {
		if im.IsPrimary {
			return im, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}

// ProductInput carries the admin-entered fields for a new product.
type ProductInput struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Artist          string  `json:"artist" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Description     string  `json:"description"`
	LongDescription string  `json:"long_description"`
	Year            *int    `json:"year,omitempty" validate:"omitempty,gte=1000,lte=2100"`
	Dimensions      string  `json:"dimensions,omitempty"`
	Technique       string  `json:"technique,omitempty"`
	Category        string  `json:"category,omitempty"`
	InStock         bool    `json:"in_stock"`
}

// CartItem is one row of a user's cart. Product is the joined catalog row
// the gateway embeds on reads.
type CartItem struct {
	ID        string    `json:"id" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	ProductID string    `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

// Like marks that a user liked a product. At most one row per (user, product).
type Like struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

// Profile is the public part of a registered user.
type Profile struct {
	ID        string    `json:"id" validate:"required"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Roles a user can hold. Absence of a role row means RoleUser.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserWithRole pairs a profile with its effective role.
type UserWithRole struct {
	Profile
	Role string `json:"role"`
}

// Session is the authenticated identity of this client, or absent.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the session token is past its expiry. A zero
// ExpiresAt is treated as non-expiring.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Validate checks a record's ingress constraints. Gateway responses and
// admin input pass through here instead of being trusted shape-implicitly.
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidateProducts checks every row of a fetched catalog.
func ValidateProducts(ps []Product) error {
	for i := range ps {
		if err := validate.Struct(&ps[i]); err != nil {
			return err
		}
	}
	return nil
}
