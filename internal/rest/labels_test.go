package rest

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lojaConforto/business/labelscan"
	"lojaConforto/domain"
)

type mockLabelScanService struct {
	extracted domain.ExtractedLabel
	rawText   string
	err       error
	gotImage  []byte
	gotName   string
}

func (m *mockLabelScanService) ScanImage(_ context.Context, image []byte, filename string) (domain.ExtractedLabel, string, error) {
	m.gotImage = image
	m.gotName = filename
	return m.extracted, m.rawText, m.err
}

func newScanContext(t *testing.T, withFile bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if withFile {
		part, err := writer.CreateFormFile("image", "etiqueta.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/labels/scan", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestScanLabelHandler(t *testing.T) {
	t.Run("returns extracted fields with raw text", func(t *testing.T) {
		svc := &mockLabelScanService{
			extracted: domain.ExtractedLabel{Name: "Sofá Retrátil", SKU: "SOFA2301"},
			rawText:   "Sofá Retrátil\nREF: SOFA2301",
		}
		h := NewLabelHandler(svc)

		c, rec := newScanContext(t, true)
		require.NoError(t, h.ScanLabel(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "etiqueta.jpg", svc.gotName)
		assert.NotEmpty(t, svc.gotImage)
		assert.Contains(t, rec.Body.String(), "SOFA2301")
	})

	t.Run("missing file", func(t *testing.T) {
		h := NewLabelHandler(&mockLabelScanService{})

		c, rec := newScanContext(t, false)
		require.NoError(t, h.ScanLabel(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nothing extracted still returns raw text", func(t *testing.T) {
		svc := &mockLabelScanService{rawText: "???", err: labelscan.ErrNothingExtracted}
		h := NewLabelHandler(svc)

		c, rec := newScanContext(t, true)
		require.NoError(t, h.ScanLabel(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "???")
	})

	t.Run("ocr failure maps to bad gateway", func(t *testing.T) {
		h := NewLabelHandler(&mockLabelScanService{err: assert.AnError})

		c, rec := newScanContext(t, true)
		require.NoError(t, h.ScanLabel(c))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
