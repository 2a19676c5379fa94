package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ReviewStatus string

const (
	ReviewStatusActive   ReviewStatus = "active"
	ReviewStatusDisabled ReviewStatus = "disabled"
)

func (s ReviewStatus) Valid() bool {
	return s == ReviewStatusActive || s == ReviewStatusDisabled
}

// Reply is immutable once created; it can only be removed.
type Reply struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a single review document. Likes and Dislikes are user id sets
// stored as JSON arrays; a user id never appears in both.
type Review struct {
	ID        uint64                     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64                     `gorm:"column:product_id;not null;uniqueIndex:idx_reviews_product_user,priority:1" json:"product_id"`
	UserID    uint                       `gorm:"column:user_id;not null;uniqueIndex:idx_reviews_product_user,priority:2" json:"user_id"`
	UserName  string                     `gorm:"column:user_name;type:text" json:"user_name"`
	Rating    int                        `gorm:"column:rating;not null" json:"rating"`
	Title     string                     `gorm:"column:title;type:text" json:"title"`
	Text      string                     `gorm:"column:text;type:text" json:"text"`
	Likes     datatypes.JSONSlice[uint]  `gorm:"column:likes" json:"likes"`
	Dislikes  datatypes.JSONSlice[uint]  `gorm:"column:dislikes" json:"dislikes"`
	Replies   datatypes.JSONSlice[Reply] `gorm:"column:replies" json:"replies"`
	IsEdited  bool                       `gorm:"column:is_edited;default:false" json:"is_edited"`
	Status    ReviewStatus               `gorm:"column:status;type:text;default:active" json:"status"`
	CreatedAt time.Time                  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time                  `gorm:"column:updated_at" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewDerived holds counts computed from the live sets on every read.
type ReviewDerived struct {
	LikesCount    int  `json:"likes_count"`
	DislikesCount int  `json:"dislikes_count"`
	RepliesCount  int  `json:"replies_count"`
	IsLiked       bool `json:"is_liked"`
	IsDisliked    bool `json:"is_disliked"`
}

type ReviewView struct {
	Review
	ReviewDerived
}

// ReviewPatch carries an author edit; nil fields are left untouched.
type ReviewPatch struct {
	Rating *int
	Title  *string
	Text   *string
}

// RatingAggregate is the product rating recomputed from its reviews.
type RatingAggregate struct {
	ProductID   uint64  `json:"product_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
