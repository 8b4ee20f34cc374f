package models

// CityMean is one bar of an aggregation view.
type CityMean struct {
	City  string  `json:"city"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Bounds holds the observed value ranges of the dataset, used to bound the
// filter form inputs.
type Bounds struct {
	Cities   []string   `json:"cities"`
	Animals  []string   `json:"animals"`
	Rooms    IntRange   `json:"rooms"`
	Bathroom IntRange   `json:"bathroom"`
	Price    FloatRange `json:"price"`
}

// Report holds the computed analytics over a set of listings.
type Report struct {
	TotalListings   int
	AverageRent     float64
	MinRent         float64
	MaxRent         float64
	MostExpensive   *Listing
	ListingsByCity  map[string]int
	MeanRentByCity  []CityMean
	MeanTotalByCity []CityMean
}

// ScatterPoint is one (area, rent) observation.
type ScatterPoint struct {
	Area float64 `json:"area"`
	Rent float64 `json:"rent"`
}

// ScatterSeries groups scatter points of a single city.
type ScatterSeries struct {
	City   string         `json:"city"`
	Points []ScatterPoint `json:"points"`
}

// HistogramBin is one equal-width rent bucket. Counts is aligned with
// HistogramData.Cities.
type HistogramBin struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Counts []int   `json:"counts"`
}

// Total returns the number of listings in the bin across all cities.
func (b HistogramBin) Total() int {
	n := 0
	for _, c := range b.Counts {
		n += c
	}
	return n
}

// HistogramData is the rent distribution split by city.
type HistogramData struct {
	Cities []string       `json:"cities"`
	Bins   []HistogramBin `json:"bins"`
}

// View is everything needed to render the dashboard for one criteria value.
type View struct {
	Criteria        FilterCriteria  `json:"criteria"`
	Bounds          Bounds          `json:"bounds"`
	Listings        []Listing       `json:"listings"`
	MeanRentByCity  []CityMean      `json:"mean_rent_by_city"`
	MeanTotalByCity []CityMean      `json:"mean_total_by_city"`
	Scatter         []ScatterSeries `json:"scatter"`
	Histogram       *HistogramData  `json:"histogram"`
}
