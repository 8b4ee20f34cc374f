package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-dashboard/models"
)

var testSize = Size{Width: 640, Height: 400}

func sampleMeans() []models.CityMean {
	return []models.CityMean{
		{City: "Campinas", Mean: 2364.29, Count: 853},
		{City: "Porto Alegre", Mean: 2337.70, Count: 1193},
		{City: "São Paulo", Mean: 4652.79, Count: 5887},
	}
}

func sampleScatter() []models.ScatterSeries {
	return []models.ScatterSeries{
		{City: "São Paulo", Points: []models.ScatterPoint{{Area: 70, Rent: 3300}, {Area: 40, Rent: 1200}}},
		{City: "Rio de Janeiro", Points: []models.ScatterPoint{{Area: 80, Rent: 4999}}},
	}
}

func sampleHistogram() *models.HistogramData {
	return &models.HistogramData{
		Cities: []string{"São Paulo", "Rio de Janeiro"},
		Bins: []models.HistogramBin{
			{Lower: 500, Upper: 1500, Counts: []int{2, 1}},
			{Lower: 1500, Upper: 2500, Counts: []int{0, 3}},
			{Lower: 2500, Upper: 3500, Counts: []int{1, 0}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())
	assert.Equal(t, "image/png", PNG.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestNoData(t *testing.T) {
	_, err := MeanBar("t", "a", nil, testSize)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = Scatter(nil, testSize)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = RentHistogram(&models.HistogramData{}, testSize)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = RentHistogram(nil, testSize)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMeanBarKeepsOrder(t *testing.T) {
	bc, err := MeanBar("Distribuição de Preços Médios de Aluguel", "R$", sampleMeans(), testSize)
	require.NoError(t, err)
	require.Len(t, bc.Bars, 3)
	assert.Equal(t, "Campinas", bc.Bars[0].Label)
	assert.Equal(t, "São Paulo", bc.Bars[2].Label)
}

func TestRenderAllChartsSVG(t *testing.T) {
	bar, err := MeanBar("Mean rent", "R$", sampleMeans(), testSize)
	require.NoError(t, err)
	scatter, err := Scatter(sampleScatter(), testSize)
	require.NoError(t, err)
	hist, err := RentHistogram(sampleHistogram(), testSize)
	require.NoError(t, err)

	for name, r := range map[string]Renderable{"bar": bar, "scatter": scatter, "histogram": hist} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(r, SVG, &buf))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderPNG(t *testing.T) {
	bar, err := MeanBar("Mean total", "R$", sampleMeans(), testSize)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(bar, PNG, &buf))
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])
}

func TestHistogramSingleBin(t *testing.T) {
	h := &models.HistogramData{
		Cities: []string{"Campinas"},
		Bins:   []models.HistogramBin{{Lower: 1000, Upper: 1000, Counts: []int{2}}},
	}
	c, err := RentHistogram(h, testSize)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(c, SVG, &buf))
}

func TestBlueScaleClamps(t *testing.T) {
	assert.Equal(t, blueLight.R, blueScale(-1).R)
	assert.Equal(t, blueDark.B, blueScale(2).B)
	assert.Equal(t, CityColor(0), CityColor(len(cityPalette)))
}
