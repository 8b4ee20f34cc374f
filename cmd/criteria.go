package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rent-dashboard/models"
	"rent-dashboard/services"
)

// criteriaFlags binds the filter form to command flags. Flags left unset
// keep the dashboard defaults.
type criteriaFlags struct {
	cities   []string
	animals  []string
	rooms    string
	bathroom string
	price    string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.cities, "city", nil, "cities to include (repeatable or comma separated)")
	fs.StringSliceVar(&f.animals, "animal", nil, `animal policies to include ("acept", "not acept")`)
	fs.StringVar(&f.rooms, "rooms", "", "rooms range as min-max, e.g. 2-3")
	fs.StringVar(&f.bathroom, "bathroom", "", "bathroom range as min-max, e.g. 1-2")
	fs.StringVar(&f.price, "price", "", "rent range as min-max, e.g. 500-5000")
}

func (f *criteriaFlags) criteria(cmd *cobra.Command) (models.FilterCriteria, error) {
	c := services.DefaultCriteria()
	fs := cmd.Flags()

	if fs.Changed("city") {
		c.Cities = f.cities
	}
	if fs.Changed("animal") {
		c.Animals = f.animals
	}

	var err error
	if fs.Changed("rooms") {
		if c.Rooms, err = parseIntRange("rooms", f.rooms); err != nil {
			return c, err
		}
	}
	if fs.Changed("bathroom") {
		if c.Bathroom, err = parseIntRange("bathroom", f.bathroom); err != nil {
			return c, err
		}
	}
	if fs.Changed("price") {
		if c.Price, err = parseFloatRange("price", f.price); err != nil {
			return c, err
		}
	}
	return c, nil
}

// splitRange accepts "min-max" or a single value meaning min == max.
func splitRange(s string) (string, string) {
	s = strings.TrimSpace(s)
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		return strings.TrimSpace(lo), strings.TrimSpace(hi)
	}
	return s, s
}

func parseIntRange(name, s string) (models.IntRange, error) {
	loS, hiS := splitRange(s)
	lo, err1 := strconv.Atoi(loS)
	hi, err2 := strconv.Atoi(hiS)
	if err1 != nil || err2 != nil {
		return models.IntRange{}, fmt.Errorf("%w: --%s %q", services.ErrInvalidCriteria, name, s)
	}
	if lo > hi {
		return models.IntRange{}, fmt.Errorf("%w: --%s min greater than max", services.ErrInvalidCriteria, name)
	}
	return models.IntRange{Min: lo, Max: hi}, nil
}

func parseFloatRange(name, s string) (models.FloatRange, error) {
	loS, hiS := splitRange(s)
	lo, err1 := strconv.ParseFloat(loS, 64)
	hi, err2 := strconv.ParseFloat(hiS, 64)
	if err1 != nil || err2 != nil {
		return models.FloatRange{}, fmt.Errorf("%w: --%s %q", services.ErrInvalidCriteria, name, s)
	}
	if lo > hi {
		return models.FloatRange{}, fmt.Errorf("%w: --%s min greater than max", services.ErrInvalidCriteria, name)
	}
	return models.FloatRange{Min: lo, Max: hi}, nil
}
