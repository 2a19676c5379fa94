package postgres

import (
	"errors"
	"fmt"
	"myCatalog/domain"

	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto domain errors. what names the
// record for the message, e.g. "product".
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %w", what, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %w", what, domain.ErrDuplicate)
	default:
		return err
	}
}
