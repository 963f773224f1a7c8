package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"lojaConforto/business/labelscan"
	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
)

type LabelScanService interface {
	ScanImage(ctx context.Context, image []byte, filename string) (domain.ExtractedLabel, string, error)
}

type LabelHandler struct {
	labelScanService LabelScanService
	timeout          time.Duration
	maxImageBytes    int64
}

func NewLabelHandler(labelScanService LabelScanService) *LabelHandler {
	return &LabelHandler{
		labelScanService: labelScanService,
		timeout:          30 * time.Second,
		maxImageBytes:    10 << 20, // label photos, not scans of the whole store
	}
}

// ScanLabel accepts a multipart "image" file, runs it through OCR and the
// extraction heuristics, and returns the suggested form values together
// with the raw recognized text.
func (h *LabelHandler) ScanLabel(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		logger.Error("Missing label image", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "image file is required"})
	}

	if fileHeader.Size > h.maxImageBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ResponseError{Message: "image too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open label image", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes))
	if err != nil {
		logger.Error("Failed to read label image", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	extracted, rawText, err := h.labelScanService.ScanImage(ctx, image, fileHeader.Filename)
	if err != nil {
		logger.Error("Failed to scan label", err)
		if errors.Is(err, labelscan.ErrNothingExtracted) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"message": err.Error(),
				"text":    rawText,
			})
		}
		return c.JSON(http.StatusBadGateway, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "label scanned successfully",
		"extracted": extracted,
		"text":      rawText,
	})
}
