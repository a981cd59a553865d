package settings

import (
	"time"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// GeneralSettings holds per-shop preferences. The scheduler interprets
// execution times in the shop's timezone, not UTC, so a merchant's
// "09:00" means 09:00 on their wall clock.
type GeneralSettings struct {
	ID           string `db:"id" json:"id"`
	Timezone     string `db:"timezone" json:"timezone"`
	Language     string `db:"language" json:"language"`
	SalesAccount string `db:"sales_account" json:"sales_account"`

	types.BaseModel
}

// Location resolves the shop's timezone, falling back to UTC when unset.
func (s *GeneralSettings) Location() (*time.Location, error) {
	if s == nil || s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unknown timezone %q", s.Timezone).
			Mark(ierr.ErrValidation)
	}
	return loc, nil
}
