package domain

// ExtractedLabel is a best-effort guess parsed from a product label photo.
// Callers use it to prefill a form, never as authoritative data.
type ExtractedLabel struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
	Size string `json:"size"`
}
