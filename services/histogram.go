package services

import "rent-dashboard/models"

// DefaultHistogramBins matches the bin count of the rent distribution chart.
const DefaultHistogramBins = 20

// Histogram splits the rent range of listings into equal-width bins and
// counts listings per bin and city. The last bin is closed on the right so
// the maximum lands inside it.
func Histogram(listings []models.Listing, bins int) *models.HistogramData {
	data := &models.HistogramData{Cities: []string{}, Bins: []models.HistogramBin{}}
	if len(listings) == 0 {
		return data
	}
	if bins < 1 {
		bins = DefaultHistogramBins
	}

	cityIdx := make(map[string]int)
	lo, hi := listings[0].RentAmount, listings[0].RentAmount
	for _, l := range listings {
		if _, ok := cityIdx[l.City]; !ok {
			cityIdx[l.City] = len(data.Cities)
			data.Cities = append(data.Cities, l.City)
		}
		lo = min(lo, l.RentAmount)
		hi = max(hi, l.RentAmount)
	}

	if hi == lo {
		bins = 1
	}
	width := (hi - lo) / float64(bins)

	data.Bins = make([]models.HistogramBin, bins)
	for i := range data.Bins {
		data.Bins[i] = models.HistogramBin{
			Lower:  lo + float64(i)*width,
			Upper:  lo + float64(i+1)*width,
			Counts: make([]int, len(data.Cities)),
		}
	}
	data.Bins[bins-1].Upper = hi

	for _, l := range listings {
		i := bins - 1
		if width > 0 {
			i = int((l.RentAmount - lo) / width)
			if i >= bins {
				i = bins - 1
			}
		}
		data.Bins[i].Counts[cityIdx[l.City]]++
	}
	return data
}

// ScatterByCity splits listings into (area, rent) series, one per city in
// first-seen order.
func ScatterByCity(listings []models.Listing) []models.ScatterSeries {
	idx := make(map[string]int)
	series := make([]models.ScatterSeries, 0)
	for _, l := range listings {
		i, ok := idx[l.City]
		if !ok {
			i = len(series)
			idx[l.City] = i
			series = append(series, models.ScatterSeries{City: l.City})
		}
		series[i].Points = append(series[i].Points, models.ScatterPoint{Area: l.Area, Rent: l.RentAmount})
	}
	return series
}
