package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/inference"
	"github.com/joyal-jij0/pragati/internal/schemes"
	"github.com/joyal-jij0/pragati/internal/weather"
)

// writeError translates a service error into an HTTP response. Internal
// details never leak: anything unrecognized becomes a generic 500.
func writeError(c *gin.Context, err error) {
	var validation *common.ValidationError
	var conflict *common.ConflictError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.Is(err, common.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, weather.ErrUnavailable),
		errors.Is(err, schemes.ErrUnavailable),
		errors.Is(err, inference.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func abortWithError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}
