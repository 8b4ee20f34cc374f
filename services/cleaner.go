package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"rent-dashboard/models"
	"rent-dashboard/utils"
)

// amountRegexp captures a numeric amount, optionally with thousands separators.
var amountRegexp = regexp.MustCompile(`-?[\d,]+(?:\.\d+)?`)

// Cleaner transforms RawListings into typed Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts raw rows to listings, keeping their order. A row whose
// required numeric fields (rooms, bathroom, rent, total) cannot be parsed
// fails the whole load.
func (c *Cleaner) Clean(raw []*models.RawListing) ([]models.Listing, error) {
	result := make([]models.Listing, 0, len(raw))

	for _, r := range raw {
		l, err := c.cleanRow(r)
		if err != nil {
			return nil, fmt.Errorf("cleaner: line %d: %w", r.Line, err)
		}
		result = append(result, l)
	}

	c.logger.Info("[cleaner] Cleaned %d listings", len(result))
	return result, nil
}

func (c *Cleaner) cleanRow(r *models.RawListing) (models.Listing, error) {
	rooms, err := parseCount(r.Rooms)
	if err != nil {
		return models.Listing{}, fmt.Errorf("rooms: %w", err)
	}
	bathroom, err := parseCount(r.Bathroom)
	if err != nil {
		return models.Listing{}, fmt.Errorf("bathroom: %w", err)
	}
	rent, err := parseAmount(r.RentAmount)
	if err != nil {
		return models.Listing{}, fmt.Errorf("rent amount: %w", err)
	}
	total, err := parseAmount(r.Total)
	if err != nil {
		return models.Listing{}, fmt.Errorf("total: %w", err)
	}

	return models.Listing{
		City:          normaliseText(r.City),
		Area:          c.optionalAmount(r.Line, "area", r.Area),
		Rooms:         rooms,
		Bathroom:      bathroom,
		ParkingSpaces: int(c.optionalAmount(r.Line, "parking spaces", r.ParkingSpaces)),
		Floor:         c.parseFloor(r.Line, r.Floor),
		Animal:        normaliseText(r.Animal),
		Furniture:     normaliseText(r.Furniture),
		HOA:           c.optionalAmount(r.Line, "hoa", r.HOA),
		RentAmount:    rent,
		PropertyTax:   c.optionalAmount(r.Line, "property tax", r.PropertyTax),
		FireInsurance: c.optionalAmount(r.Line, "fire insurance", r.FireInsurance),
		Total:         total,
	}, nil
}

// optionalAmount parses columns the dashboard only displays; bad values
// become 0.
func (c *Cleaner) optionalAmount(line int, column, raw string) float64 {
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	v, err := parseAmount(raw)
	if err != nil {
		c.logger.Debug("[cleaner] line %d: unparseable %s %q, using 0", line, column, raw)
		return 0
	}
	return v
}

// parseFloor maps the ground-floor marker "-" to 0.
func (c *Cleaner) parseFloor(line int, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.logger.Debug("[cleaner] line %d: unparseable floor %q, using 0", line, raw)
		return 0
	}
	return n
}

func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", raw)
	}
	return n, nil
}

// parseAmount extracts a value such as "R$ 1,200" or "3500.50".
func parseAmount(raw string) (float64, error) {
	match := amountRegexp.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
