package services

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"rent-dashboard/models"
	"rent-dashboard/utils"
)

// ErrInvalidCriteria wraps every criteria parsing failure.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Query parameter names understood by ParseCriteria.
const (
	ParamCity        = "city"
	ParamAnimal      = "animal"
	ParamRoomsMin    = "rooms_min"
	ParamRoomsMax    = "rooms_max"
	ParamBathroomMin = "bathroom_min"
	ParamBathroomMax = "bathroom_max"
	ParamPriceMin    = "price_min"
	ParamPriceMax    = "price_max"
	// ParamSubmitted marks a form submission: absent multi-selects then mean
	// "nothing selected" instead of "use the default".
	ParamSubmitted = "submitted"
)

// Dashboard answers filter requests over one immutable dataset. Views that
// do not depend on the criteria are computed once in NewDashboard.
type Dashboard struct {
	dataset   *models.Dataset
	bounds    models.Bounds
	meanRent  []models.CityMean
	meanTotal []models.CityMean
	bins      int
	logger    *utils.Logger
}

// NewDashboard precomputes the full-dataset views.
func NewDashboard(ds *models.Dataset, bins int, logger *utils.Logger) *Dashboard {
	all := ds.Listings()
	if bins < 1 {
		bins = DefaultHistogramBins
	}
	return &Dashboard{
		dataset:   ds,
		bounds:    ComputeBounds(all),
		meanRent:  MeanRentByCity(all),
		meanTotal: MeanTotalByCity(all),
		bins:      bins,
		logger:    logger,
	}
}

// Dataset returns the dataset the dashboard was built from.
func (d *Dashboard) Dataset() *models.Dataset { return d.dataset }

// Bins is the histogram bin count.
func (d *Dashboard) Bins() int { return d.bins }

// Bounds returns the observed ranges of the dataset.
func (d *Dashboard) Bounds() models.Bounds { return d.bounds }

// Aggregate returns the full-dataset view for field.
func (d *Dashboard) Aggregate(field Field) []models.CityMean {
	if field == FieldTotal {
		return d.meanTotal
	}
	return d.meanRent
}

// Handle filters the dataset with c and returns everything needed to
// render the dashboard sections.
func (d *Dashboard) Handle(c models.FilterCriteria) *models.View {
	filtered := Filter(d.dataset, c)
	d.logger.Debug("[dashboard] %s matched %d/%d listings", c.Key(), len(filtered), d.dataset.Len())

	return &models.View{
		Criteria:        c,
		Bounds:          d.bounds,
		Listings:        filtered,
		MeanRentByCity:  d.meanRent,
		MeanTotalByCity: d.meanTotal,
		Scatter:         ScatterByCity(filtered),
		Histogram:       Histogram(filtered, d.bins),
	}
}

// ParseCriteria builds criteria from query or form values. Fields that are
// not present keep their DefaultCriteria value.
func ParseCriteria(v url.Values) (models.FilterCriteria, error) {
	c := DefaultCriteria()
	submitted := v.Get(ParamSubmitted) != ""

	if cities, ok := multi(v, ParamCity); ok || submitted {
		c.Cities = cities
	}
	if animals, ok := multi(v, ParamAnimal); ok || submitted {
		c.Animals = animals
	}

	var err error
	if c.Rooms, err = intRange(v, ParamRoomsMin, ParamRoomsMax, c.Rooms); err != nil {
		return c, err
	}
	if c.Bathroom, err = intRange(v, ParamBathroomMin, ParamBathroomMax, c.Bathroom); err != nil {
		return c, err
	}
	if c.Price, err = floatRange(v, ParamPriceMin, ParamPriceMax, c.Price); err != nil {
		return c, err
	}
	return c, nil
}

// Values is the inverse of ParseCriteria.
func Values(c models.FilterCriteria) url.Values {
	v := url.Values{}
	v.Set(ParamSubmitted, "1")
	for _, city := range c.Cities {
		v.Add(ParamCity, city)
	}
	for _, a := range c.Animals {
		v.Add(ParamAnimal, a)
	}
	v.Set(ParamRoomsMin, strconv.Itoa(c.Rooms.Min))
	v.Set(ParamRoomsMax, strconv.Itoa(c.Rooms.Max))
	v.Set(ParamBathroomMin, strconv.Itoa(c.Bathroom.Min))
	v.Set(ParamBathroomMax, strconv.Itoa(c.Bathroom.Max))
	v.Set(ParamPriceMin, strconv.FormatFloat(c.Price.Min, 'f', -1, 64))
	v.Set(ParamPriceMax, strconv.FormatFloat(c.Price.Max, 'f', -1, 64))
	return v
}

// multi collects a repeated or comma-separated parameter.
func multi(v url.Values, key string) ([]string, bool) {
	raw, ok := v[key]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, true
}

func intRange(v url.Values, minKey, maxKey string, def models.IntRange) (models.IntRange, error) {
	r := def
	for _, p := range []struct {
		key string
		dst *int
	}{{minKey, &r.Min}, {maxKey, &r.Max}} {
		if s := strings.TrimSpace(v.Get(p.key)); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return def, fmt.Errorf("%w: %s=%q", ErrInvalidCriteria, p.key, s)
			}
			*p.dst = n
		}
	}
	if r.Min > r.Max {
		return def, fmt.Errorf("%w: %s greater than %s", ErrInvalidCriteria, minKey, maxKey)
	}
	return r, nil
}

func floatRange(v url.Values, minKey, maxKey string, def models.FloatRange) (models.FloatRange, error) {
	r := def
	for _, p := range []struct {
		key string
		dst *float64
	}{{minKey, &r.Min}, {maxKey, &r.Max}} {
		if s := strings.TrimSpace(v.Get(p.key)); s != "" {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return def, fmt.Errorf("%w: %s=%q", ErrInvalidCriteria, p.key, s)
			}
			*p.dst = f
		}
	}
	if r.Min > r.Max {
		return def, fmt.Errorf("%w: %s greater than %s", ErrInvalidCriteria, minKey, maxKey)
	}
	return r, nil
}
