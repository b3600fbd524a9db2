package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/attendance"
	"github.com/mamadbah2/poultrypms/internal/service/auth"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
	"github.com/mamadbah2/poultrypms/internal/service/poultry"
)

const dateLayout = "2006-01-02"

// respondError maps service errors onto HTTP statuses with a {message} body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var insufficientFeed *ledger.InsufficientStockError
	var insufficientEggs *ledger.InsufficientEggStockError
	var exceedsFlock *poultry.ExceedsFlockError

	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound), errors.Is(err, attendance.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "resource not found"})
	case errors.Is(err, mongodb.ErrDuplicateKey), errors.Is(err, attendance.ErrSheetExists), errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.As(err, &insufficientFeed), errors.As(err, &insufficientEggs), errors.As(err, &exceedsFlock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// parseDate accepts a plain calendar date and falls back to RFC 3339 for
// clients sending full timestamps. The result is always midnight UTC of the
// submitted calendar day, whatever offset the client wrote; the per-date
// unique indexes rely on one instant per day.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ledger.ErrInvalidInput, raw)
	}
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func invalidID(raw string) error {
	return fmt.Errorf("%w: invalid id %q", ledger.ErrInvalidInput, raw)
}

// pathID parses the :id route parameter as an ObjectID.
func pathID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, invalidID(c.Param("id"))
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %s", ledger.ErrInvalidInput, err.Error())
	}
	return nil
}
