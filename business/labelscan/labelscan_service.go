package labelscan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
	"lojaConforto/pkg/metrics"
)

// TextRecognizer contract interface
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte, filename string) (string, error)
}

var ErrNothingExtracted = errors.New("no product data could be extracted from label")

var (
	codePattern     = regexp.MustCompile(`\b[A-Z0-9]{4,}\b`)
	sizePattern     = regexp.MustCompile(`(?i)(?:tamanho|size|medida|med|p|m|g|gg|pp|:)\s*([A-Z0-9\s/\-.]+)`)
	fallbackPattern = regexp.MustCompile(`\b\d{6,}\b`)
	longDigitsStart = regexp.MustCompile(`^\d{10,}`)
)

type labelscanService struct {
	recognizer TextRecognizer
}

func NewLabelScanService(recognizer TextRecognizer) *labelscanService {
	return &labelscanService{
		recognizer: recognizer,
	}
}

// ScanImage runs OCR on a label photo and parses the recognized text.
// The raw text is returned alongside so the caller can show it for
// manual correction; the parsed fields are a suggestion only.
func (s *labelscanService) ScanImage(ctx context.Context, image []byte, filename string) (domain.ExtractedLabel, string, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when scanning label")
		return domain.ExtractedLabel{}, "", fmt.Errorf("context error: %w", err)
	}

	if len(image) == 0 {
		return domain.ExtractedLabel{}, "", errors.New("image is required")
	}

	text, err := s.recognizer.Recognize(ctx, image, filename)
	if err != nil {
		logger.Error("Failed to recognize label text", err)
		metrics.LabelScans.WithLabelValues("ocr_error").Inc()
		return domain.ExtractedLabel{}, "", err
	}

	extracted := Parse(text)
	if extracted.Name == "" && extracted.SKU == "" {
		metrics.LabelScans.WithLabelValues("empty").Inc()
		return domain.ExtractedLabel{}, text, ErrNothingExtracted
	}

	metrics.LabelScans.WithLabelValues("ok").Inc()

	return extracted, text, nil
}

// Parse applies the label heuristics to already recognized text:
// a 4+ char uppercase alphanumeric token is treated as the SKU (falling
// back to the first 6+ digit run), words following a size keyword as the
// size, and the first line longer than 5 chars that is not a barcode as
// the product name.
func Parse(text string) domain.ExtractedLabel {
	var out domain.ExtractedLabel

	if m := codePattern.FindString(text); m != "" {
		out.SKU = m
	}

	if m := sizePattern.FindStringSubmatch(text); len(m) > 1 {
		out.Size = strings.ToUpper(strings.TrimSpace(m[1]))
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		runes := []rune(line)
		if len(runes) > 5 && !longDigitsStart.MatchString(line) {
			if len(runes) > 100 {
				line = string(runes[:100])
			}
			out.Name = line
			break
		}
	}

	if out.SKU == "" {
		if m := fallbackPattern.FindString(text); m != "" {
			out.SKU = m
		}
	}

	return out
}
