package receipt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/GDiazF/sgaf/internal/models"

	"gorm.io/gorm"
)

// DefaultFolioPrefix is used when the provider has no type acronym.
const DefaultFolioPrefix = "DAEM"

func folioPrefix(provider *models.Provider) string {
	if provider.ProviderType != nil && provider.ProviderType.Acronym != "" {
		return provider.ProviderType.Acronym
	}
	return DefaultFolioPrefix
}

// nextFolio computes the next folio for a (prefix, year) pair as
// "PREFIX-YYYY-NNNN". It looks up the lexicographic maximum among existing
// folios with that exact prefix; zero padding keeps textual order equal to
// numeric order within a year. A missing or malformed trailing segment
// restarts the sequence at 1. Uniqueness is enforced by the DB index, not
// here; the caller retries once on a duplicate-key write.
func nextFolio(tx *gorm.DB, base string, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%d", base, year)

	var last models.Receipt
	seq := 1
	err := tx.Where("folio LIKE ?", prefix+"-%").Order("folio DESC").First(&last).Error
	switch {
	case err == nil:
		tail := last.Folio[strings.LastIndex(last.Folio, "-")+1:]
		if n, perr := strconv.Atoi(tail); perr == nil {
			seq = n + 1
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first folio for this prefix
	default:
		return "", err
	}

	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}
