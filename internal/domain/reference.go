package domain

type Airport struct {
	ID        int64   `json:"id"`
	IataCode  string  `json:"iata_code"`
	IcaoCode  string  `json:"icao_code"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation int     `json:"elevation"`
}

type Airline struct {
	ID       int64  `json:"id"`
	IataCode string `json:"iata_code"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

type Aircraft struct {
	ID        int64  `json:"id"`
	IataCode  string `json:"iata_code"`
	ModelName string `json:"model_name"`
	ShortName string `json:"short_name"`
}

// ReferenceSet is a batch of reference records written together.
type ReferenceSet struct {
	Airports []Airport
	Airlines []Airline
	Aircraft []Aircraft
	Routes   []Route
}

func (s ReferenceSet) Len() int {
	return len(s.Airports) + len(s.Airlines) + len(s.Aircraft) + len(s.Routes)
}
