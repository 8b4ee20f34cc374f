package models

// RawListing holds one CSV row exactly as read, before any cleaning.
type RawListing struct {
	Line          int
	City          string
	Area          string
	Rooms         string
	Bathroom      string
	ParkingSpaces string
	Floor         string
	Animal        string
	Furniture     string
	HOA           string
	RentAmount    string
	PropertyTax   string
	FireInsurance string
	Total         string
}

// Listing is one cleaned rental property record. Amounts are in reais.
type Listing struct {
	City          string  `json:"city"`
	Area          float64 `json:"area"`
	Rooms         int     `json:"rooms"`
	Bathroom      int     `json:"bathroom"`
	ParkingSpaces int     `json:"parking_spaces"`
	Floor         int     `json:"floor"`
	Animal        string  `json:"animal"`
	Furniture     string  `json:"furniture"`
	HOA           float64 `json:"hoa"`
	RentAmount    float64 `json:"rent_amount"`
	PropertyTax   float64 `json:"property_tax"`
	FireInsurance float64 `json:"fire_insurance"`
	Total         float64 `json:"total"`
}

// Dataset is the ordered, read-only listing table loaded once at startup.
// The zero value is an empty dataset.
type Dataset struct {
	rows []Listing
}

// NewDataset copies rows into a new Dataset.
func NewDataset(rows []Listing) *Dataset {
	cp := make([]Listing, len(rows))
	copy(cp, rows)
	return &Dataset{rows: cp}
}

// Len returns the number of listings.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// At returns the i-th listing by value.
func (d *Dataset) At(i int) Listing {
	return d.rows[i]
}

// Listings returns a copy of all rows in load order.
func (d *Dataset) Listings() []Listing {
	if d == nil {
		return []Listing{}
	}
	cp := make([]Listing, len(d.rows))
	copy(cp, d.rows)
	return cp
}
