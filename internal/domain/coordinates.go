package domain

// Geographic coordinates of a stop (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

