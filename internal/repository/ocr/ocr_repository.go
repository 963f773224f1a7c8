package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var ErrNoText = errors.New("no text recognized in image")

type OCRConfig struct {
	BaseURL string
	APIKey  string
}

// OCRRepository calls an OCR.space compatible image-to-text endpoint.
type OCRRepository struct {
	ocrConfig OCRConfig
	client    *http.Client
}

func NewOCRRepository(cfg OCRConfig) *OCRRepository {
	return &OCRRepository{
		ocrConfig: cfg,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool        `json:"IsErroredOnProcessing"`
	ErrorMessage          interface{} `json:"ErrorMessage"`
}

// Recognize submits the raw image bytes and returns the recognized text.
// Labels are Brazilian Portuguese, so the language is pinned to "por".
func (r *OCRRepository) Recognize(ctx context.Context, image []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("language", "por"); err != nil {
		return "", err
	}
	if err := writer.WriteField("OCREngine", "2"); err != nil {
		return "", err
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.ocrConfig.BaseURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if r.ocrConfig.APIKey != "" {
		req.Header.Set("apikey", r.ocrConfig.APIKey)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr request failed with status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %v", parsed.ErrorMessage)
	}

	var texts []string
	for _, result := range parsed.ParsedResults {
		if t := strings.TrimSpace(result.ParsedText); t != "" {
			texts = append(texts, t)
		}
	}

	if len(texts) == 0 {
		return "", ErrNoText
	}

	return strings.Join(texts, "\n"), nil
}
