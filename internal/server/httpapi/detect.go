package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/inference"
	"github.com/joyal-jij0/pragati/internal/logging"
)

// DetectHandler serves the image detection and market price endpoints. An
// uploaded image is stored first, then the model server reads it through a
// presigned URL.
type DetectHandler struct {
	uploads ImageStore
	models  ModelClient
	logger  logging.Logger
}

func (h *DetectHandler) Disease(c *gin.Context) {
	h.detect(c, "disease", h.models.DetectDisease)
}

func (h *DetectHandler) Pest(c *gin.Context) {
	h.detect(c, "pest", h.models.DetectPest)
}

func (h *DetectHandler) detect(c *gin.Context, kind string, run func(ctx context.Context, imageURL string) (inference.Detection, error)) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeError(c, &common.ValidationError{Field: "file", Reason: "image upload is required"})
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	key, err := h.uploads.Put(ctx, kind, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error(ctx, "image upload failed", "kind", kind, "error", err)
		writeError(c, common.ErrInternal)
		return
	}

	imageURL, err := h.uploads.PresignGet(ctx, key)
	if err != nil {
		h.logger.Error(ctx, "presign failed", "key", key, "error", err)
		writeError(c, common.ErrInternal)
		return
	}

	counts, err := run(ctx, imageURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"class_counts": counts})
}

func (h *DetectHandler) MarketPrice(c *gin.Context) {
	var req inference.MarketPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &common.ValidationError{Field: "body", Reason: "all prediction features are required"})
		return
	}

	price, err := h.models.PredictMarketPrice(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"predicted_price": price})
}
