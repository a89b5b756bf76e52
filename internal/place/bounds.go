package place

// BoundingBox names a rectangular region.
type BoundingBox struct {
	Name   string  `yaml:"name"`
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLon float64 `yaml:"min_lon"`
	MaxLon float64 `yaml:"max_lon"`
}

// Contains reports whether the point lies inside b, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// DefaultBoxes is checked in order; the first match wins.
var DefaultBoxes = []BoundingBox{
	{Name: "Montevideo, Uruguay", MinLat: -34.95, MaxLat: -34.78, MinLon: -56.45, MaxLon: -56.10},
	{Name: "Canelones, Uruguay", MinLat: -34.90, MaxLat: -34.30, MinLon: -56.45, MaxLon: -55.35},
	{Name: "Buenos Aires, Argentina", MinLat: -34.75, MaxLat: -34.50, MinLon: -58.55, MaxLon: -58.33},
}
