package compare

import (
	"fmt"

	"myCatalog/domain"
)

const (
	MinSelection = 2
	MaxSelection = 3
)

var (
	ErrSelectionFull     = fmt.Errorf("%w: selection already holds %d products", domain.ErrContractViolation, MaxSelection)
	ErrAlreadySelected   = fmt.Errorf("%w: product already selected", domain.ErrContractViolation)
	ErrCategoryMismatch  = fmt.Errorf("%w: product belongs to another category", domain.ErrContractViolation)
	ErrSelectionTooSmall = fmt.Errorf("%w: at least %d products are required", domain.ErrContractViolation, MinSelection)
	ErrSelectionTooLarge = fmt.Errorf("%w: at most %d products can be compared", domain.ErrContractViolation, MaxSelection)
)

type SelectionStatus string

const (
	SelectionEmpty   SelectionStatus = "empty"
	SelectionPartial SelectionStatus = "partial"
	SelectionFull    SelectionStatus = "full"
)

// Selection is the bounded comparison workspace of a single user. It is not
// safe for concurrent use.
type Selection struct {
	categoryID uint64
	items      []domain.ProductSnapshot
}

func NewSelection(categoryID uint64) *Selection {
	return &Selection{categoryID: categoryID}
}

func (s *Selection) CategoryID() uint64 {
	return s.categoryID
}

func (s *Selection) Len() int {
	return len(s.items)
}

func (s *Selection) Items() []domain.ProductSnapshot {
	out := make([]domain.ProductSnapshot, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Selection) Status() SelectionStatus {
	switch len(s.items) {
	case 0:
		return SelectionEmpty
	case MaxSelection:
		return SelectionFull
	default:
		return SelectionPartial
	}
}

// Ready reports whether the selection can be scored and ranked.
func (s *Selection) Ready() bool {
	return len(s.items) >= MinSelection
}

// Add appends product. An unscoped selection adopts the category of its first
// product.
func (s *Selection) Add(product domain.ProductSnapshot) error {
	if len(s.items) >= MaxSelection {
		return ErrSelectionFull
	}

	for _, item := range s.items {
		if item.ID == product.ID {
			return ErrAlreadySelected
		}
	}

	if s.categoryID == 0 {
		s.categoryID = product.CategoryID
	}

	if product.CategoryID != s.categoryID {
		return ErrCategoryMismatch
	}

	s.items = append(s.items, product)
	return nil
}

// Remove drops the product with the given id. Removing an absent id is a no-op.
func (s *Selection) Remove(id uint64) bool {
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// ChangeCategory rescopes the selection. A single pinned product already in
// the new category survives, everything else is cleared.
func (s *Selection) ChangeCategory(categoryID uint64) {
	if len(s.items) == 1 && s.items[0].CategoryID == categoryID {
		s.categoryID = categoryID
		return
	}

	s.categoryID = categoryID
	s.items = nil
}

// ValidateSelection checks the preconditions shared by similarity and ranking.
func ValidateSelection(selection []domain.ProductSnapshot) error {
	if len(selection) < MinSelection {
		return ErrSelectionTooSmall
	}

	if len(selection) > MaxSelection {
		return ErrSelectionTooLarge
	}

	seen := make(map[uint64]struct{}, len(selection))
	for _, p := range selection {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: product %d", ErrAlreadySelected, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.CategoryID != selection[0].CategoryID {
			return fmt.Errorf("%w: product %d", ErrCategoryMismatch, p.ID)
		}
	}

	return nil
}
