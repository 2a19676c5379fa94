package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     category_id     BIGINT NOT NULL REFERENCES categories(category_id),
//     name            TEXT NOT NULL,
//     brand           TEXT,
//     description     TEXT,
//     price           NUMERIC NOT NULL,
//     stock           INTEGER DEFAULT 0,
//     image_url       TEXT,
//     rating          NUMERIC DEFAULT 0,
//     review_count    INTEGER DEFAULT 0,
//     specifications  JSONB,
//     features        JSONB,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

// Specification is a named attribute of a product, e.g. {RAM, 16GB}.
type Specification struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

type Product struct {
	ID             uint64                             `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID     uint64                             `gorm:"column:category_id;index;not null" json:"category_id"`
	Name           string                             `gorm:"column:name;type:text;not null" json:"name"`
	Brand          string                             `gorm:"column:brand;type:text" json:"brand"`
	Description    string                             `gorm:"column:description;type:text" json:"description"`
	Price          float64                            `gorm:"column:price;type:numeric;not null" json:"price"`
	Stock          int                                `gorm:"column:stock;default:0" json:"stock"`
	ImageURL       string                             `gorm:"column:image_url;type:text" json:"image_url"`
	Rating         float64                            `gorm:"column:rating;type:numeric;default:0" json:"rating"`
	ReviewCount    int                                `gorm:"column:review_count;default:0" json:"review_count"`
	Specifications datatypes.JSONSlice[Specification] `gorm:"column:specifications" json:"specifications"`
	Features       datatypes.JSONSlice[string]        `gorm:"column:features" json:"features"`
	CreatedAt      time.Time                          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time                          `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSnapshot is the read-only view the comparison engine works on.
type ProductSnapshot struct {
	ID             uint64          `json:"id"`
	CategoryID     uint64          `json:"category_id"`
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	Rating         float64         `json:"rating"`
	ReviewCount    int             `json:"review_count"`
	Specifications []Specification `json:"specifications"`
	Features       []string        `json:"features"`
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:             p.ID,
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		Price:          p.Price,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Specifications: []Specification(p.Specifications),
		Features:       []string(p.Features),
	}
}
