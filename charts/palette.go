package charts

import "github.com/wcharczuk/go-chart/v2/drawing"

var cityPalette = []drawing.Color{
	drawing.ColorFromHex("636EFA"),
	drawing.ColorFromHex("EF553B"),
	drawing.ColorFromHex("00CC96"),
	drawing.ColorFromHex("AB63FA"),
	drawing.ColorFromHex("FFA15A"),
	drawing.ColorFromHex("19D3F3"),
	drawing.ColorFromHex("FF6692"),
	drawing.ColorFromHex("B6E880"),
}

// CityColor returns the series color for the i-th city.
func CityColor(i int) drawing.Color {
	return cityPalette[i%len(cityPalette)]
}

var (
	blueLight = drawing.ColorFromHex("C6DBEF")
	blueDark  = drawing.ColorFromHex("08306B")
)

// blueScale interpolates between light and dark blue; t is clamped to [0, 1].
func blueScale(t float64) drawing.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return drawing.Color{
		R: mix(blueLight.R, blueDark.R),
		G: mix(blueLight.G, blueDark.G),
		B: mix(blueLight.B, blueDark.B),
		A: 255,
	}
}
