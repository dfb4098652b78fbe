package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/GDiazF/sgaf/internal/services/contract"
	"github.com/GDiazF/sgaf/internal/services/keyloan"
	"github.com/GDiazF/sgaf/internal/services/payimport"
	"github.com/GDiazF/sgaf/internal/services/receipt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// abortWithError maps domain errors onto HTTP statuses: missing records to
// 404, business-rule conflicts to 409, bad input to 400, the rest to 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, receipt.ErrProviderNotFound),
		errors.Is(err, receipt.ErrReceiptNotFound),
		errors.Is(err, receipt.ErrPaymentNotFound),
		errors.Is(err, keyloan.ErrKeyNotFound),
		errors.Is(err, keyloan.ErrLoanNotFound),
		errors.Is(err, keyloan.ErrApplicantNotFound),
		errors.Is(err, contract.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, receipt.ErrPaymentAssigned),
		errors.Is(err, receipt.ErrReceiptVoided),
		errors.Is(err, receipt.ErrFolioConflict),
		errors.Is(err, keyloan.ErrKeyUnavailable),
		errors.Is(err, keyloan.ErrAlreadyReturned),
		errors.Is(err, contract.ErrDuplicateCode),
		errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, receipt.ErrPaymentWrongProvider),
		errors.Is(err, keyloan.ErrEmptySelection),
		errors.Is(err, payimport.ErrMissingColumns),
		errors.Is(err, payimport.ErrEmptyWorkbook),
		errors.Is(err, payimport.ErrUnreadableFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

var inputDateFormats = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

func parseInputDate(value string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range inputDateFormats {
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// actorFrom resolves the acting user for audit purposes. Authentication is
// out of scope; callers may pass X-Actor explicitly.
func actorFrom(c *gin.Context) string {
	return c.GetHeader("X-Actor")
}
