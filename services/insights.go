package services

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"rent-dashboard/models"
	"rent-dashboard/utils"
)

// Field selects the numeric column an aggregation view averages.
type Field string

const (
	FieldRent  Field = "rent"
	FieldTotal Field = "total"
)

// ErrUnknownField is returned by ParseField for names other than rent/total.
var ErrUnknownField = errors.New("unknown aggregation field")

// ParseField maps a route or flag value to a Field.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldRent:
		return FieldRent, nil
	case FieldTotal:
		return FieldTotal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (f Field) value(l models.Listing) float64 {
	if f == FieldTotal {
		return l.Total
	}
	return l.RentAmount
}

// Label is the axis caption for the field.
func (f Field) Label() string {
	if f == FieldTotal {
		return "Preço Médio Total (R$)"
	}
	return "Preço Médio de Aluguel (R$)"
}

// MeanByCity groups listings by city and averages field per group. The
// result is ascending by mean; equal means keep first-encountered city order.
func MeanByCity(listings []models.Listing, field Field) []models.CityMean {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, l := range listings {
		if _, seen := counts[l.City]; !seen {
			order = append(order, l.City)
		}
		sums[l.City] += field.value(l)
		counts[l.City]++
	}

	result := make([]models.CityMean, 0, len(order))
	for _, city := range order {
		result = append(result, models.CityMean{
			City:  city,
			Mean:  sums[city] / float64(counts[city]),
			Count: counts[city],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Mean < result[j].Mean
	})
	return result
}

// MeanRentByCity is the mean rent aggregation view.
func MeanRentByCity(listings []models.Listing) []models.CityMean {
	return MeanByCity(listings, FieldRent)
}

// MeanTotalByCity is the mean total (rent plus fees) aggregation view.
func MeanTotalByCity(listings []models.Listing) []models.CityMean {
	return MeanByCity(listings, FieldTotal)
}

// ComputeBounds returns the observed ranges used to bound the filter form.
// Cities and animal values are in first-seen order.
func ComputeBounds(listings []models.Listing) models.Bounds {
	b := models.Bounds{Cities: []string{}, Animals: []string{}}
	if len(listings) == 0 {
		return b
	}

	seenCity := make(map[string]bool)
	seenAnimal := make(map[string]bool)
	first := listings[0]
	b.Rooms = models.IntRange{Min: first.Rooms, Max: first.Rooms}
	b.Bathroom = models.IntRange{Min: first.Bathroom, Max: first.Bathroom}
	b.Price = models.FloatRange{Min: first.RentAmount, Max: first.RentAmount}

	for _, l := range listings {
		if !seenCity[l.City] {
			seenCity[l.City] = true
			b.Cities = append(b.Cities, l.City)
		}
		if !seenAnimal[l.Animal] {
			seenAnimal[l.Animal] = true
			b.Animals = append(b.Animals, l.Animal)
		}
		b.Rooms.Min = min(b.Rooms.Min, l.Rooms)
		b.Rooms.Max = max(b.Rooms.Max, l.Rooms)
		b.Bathroom.Min = min(b.Bathroom.Min, l.Bathroom)
		b.Bathroom.Max = max(b.Bathroom.Max, l.Bathroom)
		b.Price.Min = math.Min(b.Price.Min, l.RentAmount)
		b.Price.Max = math.Max(b.Price.Max, l.RentAmount)
	}
	return b
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.Listing) *models.Report {
	report := &models.Report{
		ListingsByCity:  make(map[string]int),
		MeanRentByCity:  MeanRentByCity(listings),
		MeanTotalByCity: MeanTotalByCity(listings),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.MinRent = listings[0].RentAmount
	report.MaxRent = listings[0].RentAmount
	report.MostExpensive = &listings[0]

	var total float64
	for i, l := range listings {
		report.ListingsByCity[l.City]++
		total += l.RentAmount
		if l.RentAmount < report.MinRent {
			report.MinRent = l.RentAmount
		}
		if l.RentAmount > report.MaxRent {
			report.MaxRent = l.RentAmount
			report.MostExpensive = &listings[i]
		}
	}
	report.AverageRent = round2(total / float64(len(listings)))

	s.logger.Debug("[insights] %d listings across %d cities", report.TotalListings, len(report.ListingsByCity))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.Report) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  RENTAL PRICE DASHBOARD SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings      : \033[1m%d\033[0m\n", r.TotalListings)
	if r.TotalListings > 0 {
		fmt.Fprintf(w, "  Average rent  : \033[1;32mR$ %.2f\033[0m\n", r.AverageRent)
		fmt.Fprintf(w, "  Minimum rent  : \033[1;32mR$ %.2f\033[0m\n", r.MinRent)
		fmt.Fprintf(w, "  Maximum rent  : \033[1;32mR$ %.2f\033[0m\n", r.MaxRent)
	} else {
		fmt.Fprintf(w, "  No listings match the filters\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s, %d rooms, %.0f m²\n", r.MostExpensive.City, r.MostExpensive.Rooms, r.MostExpensive.Area)
		fmt.Fprintf(w, "  Rent  : \033[1;31mR$ %.2f\033[0m\n", r.MostExpensive.RentAmount)
		fmt.Fprintf(w, "  Total : R$ %.2f\n", r.MostExpensive.Total)
		fmt.Fprintln(w)
	}

	printMeans(w, "Mean Rent by City", thin, r.MeanRentByCity)
	printMeans(w, "Mean Total by City", thin, r.MeanTotalByCity)

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

func printMeans(w io.Writer, title, thin string, means []models.CityMean) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(means) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	top := means[len(means)-1].Mean
	for _, m := range means {
		width := 0
		if top > 0 {
			width = int(m.Mean / top * 30)
		}
		fmt.Fprintf(w, "  %-16s %s R$ %.2f (%d)\n", truncate(m.City, 16), strings.Repeat("█", width), m.Mean, m.Count)
	}
	fmt.Fprintln(w)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
