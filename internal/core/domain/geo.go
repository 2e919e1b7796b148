package domain

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// ChamonixBounds covers the valley and the surrounding massifs.
var ChamonixBounds = Bounds{
	MinLon: 6.7,
	MinLat: 45.85,
	MaxLon: 7.15,
	MaxLat: 46.1,
}
