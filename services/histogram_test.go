package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-dashboard/models"
)

func TestHistogramCountsEveryListingOnce(t *testing.T) {
	listings := sampleDataset().Listings()
	h := Histogram(listings, 20)

	require.Len(t, h.Bins, 20)
	assert.Equal(t, []string{"São Paulo", "Rio de Janeiro", "Campinas", "Belo Horizonte"}, h.Cities)

	total := 0
	for _, b := range h.Bins {
		require.Len(t, b.Counts, len(h.Cities))
		total += b.Total()
	}
	assert.Equal(t, len(listings), total)

	assert.Equal(t, 500.0, h.Bins[0].Lower)
	assert.Equal(t, 6000.0, h.Bins[19].Upper)
	assert.Equal(t, 1, h.Bins[0].Counts[0], "rent 500 is in the first bin")
	assert.Equal(t, 1, h.Bins[19].Counts[1], "maximum rent lands in the last bin")
}

func TestHistogramConstantRent(t *testing.T) {
	listings := []models.Listing{
		{City: "Campinas", RentAmount: 1000},
		{City: "Campinas", RentAmount: 1000},
	}
	h := Histogram(listings, 20)
	require.Len(t, h.Bins, 1)
	assert.Equal(t, 2, h.Bins[0].Total())
}

func TestHistogramEmpty(t *testing.T) {
	h := Histogram(nil, 20)
	assert.Empty(t, h.Bins)
	assert.Empty(t, h.Cities)
}

func TestScatterByCity(t *testing.T) {
	series := ScatterByCity(sampleDataset().Listings())
	require.Len(t, series, 4)
	assert.Equal(t, "São Paulo", series[0].City)
	assert.Len(t, series[0].Points, 3)
	assert.Equal(t, models.ScatterPoint{Area: 70, Rent: 1000}, series[0].Points[0])

	assert.Empty(t, ScatterByCity(nil))
}
