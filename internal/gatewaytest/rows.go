package gatewaytest

import (
	"time"

	"kunstgalerie/internal/model"
)

type userRow struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type productRow struct {
	ID              string `gorm:"primaryKey"`
	Title           string `gorm:"not null"`
	Artist          string
	Price           float64 `gorm:"not null"`
	Description     string
	LongDescription string
	Year            *int
	Dimensions      string
	Technique       string
	Category        string
	InStock         bool
	CreatedAt       time.Time

	Images []imageRow `gorm:"foreignKey:ProductID"`
}

func (productRow) TableName() string { return "products" }

func (p productRow) toModel() model.Product {
	out := model.Product{
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
	for _, img := range p.Images {
		out.Images = append(out.Images, model.ProductImage{
			ID:        img.ID,
			ProductID: img.ProductID,
			ImageRef:  img.ImageRef,
			IsPrimary: img.IsPrimary,
		})
	}
	return out
}

type imageRow struct {
	ID        string `gorm:"primaryKey"`
	ProductID string `gorm:"index;not null"`
	ImageRef  string `gorm:"not null"`
	IsPrimary bool
}

func (imageRow) TableName() string { return "product_images" }

type cartRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null;uniqueIndex:uniq_cart_user_product"`
	ProductID string `gorm:"not null;uniqueIndex:uniq_cart_user_product"`
	Quantity  int    `gorm:"not null;check:quantity >= 1"`
	CreatedAt time.Time
}

func (cartRow) TableName() string { return "cart_items" }

func (c cartRow) toModel(p *model.Product) model.CartItem {
	return model.CartItem{
		ID:        c.ID,
		UserID:    c.UserID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt,
		Product:   p,
	}
}

type likeRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;uniqueIndex:uniq_like_user_product"`
	ProductID string `gorm:"not null;uniqueIndex:uniq_like_user_product"`
}

func (likeRow) TableName() string { return "product_likes" }

type roleRow struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"not null;uniqueIndex:uniq_role_user_role"`
	Role   string `gorm:"not null;uniqueIndex:uniq_role_user_role"`
}

func (roleRow) TableName() string { return "user_roles" }
