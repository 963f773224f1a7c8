package domain

// Coordinates as returned by the geocoder.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type GeocodeResult struct {
	Coordinates
	DisplayName string `json:"display_name"`
}

type DrivingRoute struct {
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Geometry        interface{} `json:"geometry,omitempty"` // GeoJSON LineString passed through from the router
}

// RoutePlan is everything the delivery screen needs to send a driver out.
type RoutePlan struct {
	Origin      GeocodeResult `json:"origin"`
	Destination GeocodeResult `json:"destination"`
	Route       DrivingRoute  `json:"route"`
	MapsLink    string        `json:"maps_link"`
	EmbedURL    string        `json:"embed_url"`
}
