package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdvisoryHandler serves the weather and scheme lookup endpoints. Both are
// public: the data is not farmer-specific.
type AdvisoryHandler struct {
	weather WeatherProvider
	schemes SchemesProvider
}

func (h *AdvisoryHandler) Weather(c *gin.Context) {
	resp, err := h.weather.Fetch(c.Request.Context(), c.Param("location"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdvisoryHandler) Schemes(c *gin.Context) {
	listing, err := h.schemes.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
