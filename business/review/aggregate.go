package review

import (
	"fmt"
	"math"
	"myCatalog/domain"
	"strings"

	"gorm.io/datatypes"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Vote is a user's position on one review.
type Vote string

const (
	VoteNone     Vote = "none"
	VoteLiked    Vote = "liked"
	VoteDisliked Vote = "disliked"
)

// VoteOf reports the current vote of userID on r.
func VoteOf(r domain.Review, userID uint) Vote {
	switch {
	case containsUser(r.Likes, userID):
		return VoteLiked
	case containsUser(r.Dislikes, userID):
		return VoteDisliked
	default:
		return VoteNone
	}
}

// Like toggles a like. A dislike by the same user is dropped in the same step.
func Like(r *domain.Review, userID uint) Vote {
	if containsUser(r.Likes, userID) {
		r.Likes = removeUser(r.Likes, userID)
		return VoteNone
	}

	r.Dislikes = removeUser(r.Dislikes, userID)
	r.Likes = append(removeUser(r.Likes, userID), userID)
	return VoteLiked
}

// Dislike mirrors Like.
func Dislike(r *domain.Review, userID uint) Vote {
	if containsUser(r.Dislikes, userID) {
		r.Dislikes = removeUser(r.Dislikes, userID)
		return VoteNone
	}

	r.Likes = removeUser(r.Likes, userID)
	r.Dislikes = append(removeUser(r.Dislikes, userID), userID)
	return VoteDisliked
}

// ComputeDerived reads counts and viewer flags off the live sets. viewerID 0
// is an anonymous reader.
func ComputeDerived(r domain.Review, viewerID uint) (domain.ReviewDerived, error) {
	likes := make(map[uint]struct{}, len(r.Likes))
	for _, id := range r.Likes {
		if _, dup := likes[id]; dup {
			return domain.ReviewDerived{}, fmt.Errorf("%w: review %d lists user %d twice in likes", domain.ErrInvariantBreach, r.ID, id)
		}
		likes[id] = struct{}{}
	}

	dislikes := make(map[uint]struct{}, len(r.Dislikes))
	for _, id := range r.Dislikes {
		if _, dup := dislikes[id]; dup {
			return domain.ReviewDerived{}, fmt.Errorf("%w: review %d lists user %d twice in dislikes", domain.ErrInvariantBreach, r.ID, id)
		}
		if _, both := likes[id]; both {
			return domain.ReviewDerived{}, fmt.Errorf("%w: review %d has user %d in likes and dislikes", domain.ErrInvariantBreach, r.ID, id)
		}
		dislikes[id] = struct{}{}
	}

	derived := domain.ReviewDerived{
		LikesCount:    len(likes),
		DislikesCount: len(dislikes),
		RepliesCount:  len(r.Replies),
	}

	if viewerID != 0 {
		_, derived.IsLiked = likes[viewerID]
		_, derived.IsDisliked = dislikes[viewerID]
	}

	return derived, nil
}

// AddReply appends reply. There is no limit on thread length.
func AddReply(r *domain.Review, reply domain.Reply) {
	r.Replies = append(r.Replies, reply)
}

// RemoveReply drops the reply with replyID and returns it.
func RemoveReply(r *domain.Review, replyID string) (domain.Reply, bool) {
	for i, reply := range r.Replies {
		if reply.ID != replyID {
			continue
		}

		kept := make(datatypes.JSONSlice[domain.Reply], 0, len(r.Replies)-1)
		kept = append(kept, r.Replies[:i]...)
		kept = append(kept, r.Replies[i+1:]...)
		r.Replies = kept
		return reply, true
	}

	return domain.Reply{}, false
}

// FindReply looks up a reply without modifying the thread.
func FindReply(r domain.Review, replyID string) (domain.Reply, bool) {
	for _, reply := range r.Replies {
		if reply.ID == replyID {
			return reply, true
		}
	}
	return domain.Reply{}, false
}

// EditOutcome tells the caller what an edit touched.
type EditOutcome struct {
	Changed       bool
	RatingChanged bool
}

// ApplyEdit applies an author edit. IsEdited is set only when rating, title
// or text actually changed.
func ApplyEdit(r *domain.Review, patch domain.ReviewPatch) (EditOutcome, error) {
	var out EditOutcome

	if patch.Rating != nil {
		if err := ValidateRating(*patch.Rating); err != nil {
			return out, err
		}
		if *patch.Rating != r.Rating {
			r.Rating = *patch.Rating
			out.Changed = true
			out.RatingChanged = true
		}
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title != r.Title {
			r.Title = title
			out.Changed = true
		}
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return EditOutcome{}, fmt.Errorf("%w: review text is required", domain.ErrInvalidInput)
		}
		if text != r.Text {
			r.Text = text
			out.Changed = true
		}
	}

	if out.Changed {
		r.IsEdited = true
	}

	return out, nil
}

// SetStatus is the moderation track. It never touches IsEdited.
func SetStatus(r *domain.Review, status domain.ReviewStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown review status %q", domain.ErrInvalidInput, status)
	}

	if r.Status == status {
		return false, nil
	}

	r.Status = status
	return true, nil
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, MinRating, MaxRating)
	}
	return nil
}

// CountsTowardRating decides whether r contributes to its product's rating.
func CountsTowardRating(r domain.Review, includeDisabled bool) bool {
	return includeDisabled || r.Status != domain.ReviewStatusDisabled
}

// RecomputeProductRating is a full recomputation over reviews, never a
// running average. An empty list yields 0/0.
func RecomputeProductRating(productID uint64, reviews []domain.Review) (domain.RatingAggregate, error) {
	agg := domain.RatingAggregate{ProductID: productID}
	if len(reviews) == 0 {
		return agg, nil
	}

	sum := 0
	for _, r := range reviews {
		if r.Rating < MinRating || r.Rating > MaxRating {
			return domain.RatingAggregate{}, fmt.Errorf("%w: review %d has rating %d", domain.ErrInvariantBreach, r.ID, r.Rating)
		}
		sum += r.Rating
	}

	mean := float64(sum) / float64(len(reviews))
	agg.Rating = math.Round(mean*10) / 10
	agg.ReviewCount = len(reviews)

	return agg, nil
}

func containsUser(set datatypes.JSONSlice[uint], userID uint) bool {
	for _, id := range set {
		if id == userID {
			return true
		}
	}
	return false
}

func removeUser(set datatypes.JSONSlice[uint], userID uint) datatypes.JSONSlice[uint] {
	out := make(datatypes.JSONSlice[uint], 0, len(set))
	for _, id := range set {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
