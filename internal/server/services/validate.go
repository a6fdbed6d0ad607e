package services

import (
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/google/uuid"
)

// validateID rejects ids that are not UUIDs before they reach storage.
func validateID(what, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed %s %q", common.ErrorValidation, what, id)
	}
	return nil
}
