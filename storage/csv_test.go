package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-dashboard/models"
	"rent-dashboard/services"
	"rent-dashboard/utils"
)

const sampleCSV = `city,area,rooms,bathroom,parking spaces,floor,animal,furniture,hoa (R$),rent amount (R$),property tax (R$),fire insurance (R$),total (R$)
São Paulo,70,2,1,1,7,acept,furnished,2065,3300,211,42,5618
Porto Alegre,320,4,4,0,20,acept,not furnished,1200,4960,1750,63,7973
Rio de Janeiro,80,1,1,1,-,not acept,not furnished,1000,2800,0,41,3841
`

func TestReadRaw(t *testing.T) {
	rows, err := ReadRaw(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "São Paulo", rows[0].City)
	assert.Equal(t, "3300", rows[0].RentAmount)
	assert.Equal(t, "5618", rows[0].Total)
	assert.Equal(t, "-", rows[2].Floor)
}

func TestReadRawColumnOrderAndExtras(t *testing.T) {
	in := "total (R$),extra,animal,rent amount (R$),bathroom,rooms,city\n1500,x,not acept,1000,1,2,Campinas\n"
	rows, err := ReadRaw(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Campinas", rows[0].City)
	assert.Equal(t, "1000", rows[0].RentAmount)
	assert.Equal(t, "", rows[0].Area)
}

func TestReadRawMissingColumn(t *testing.T) {
	_, err := ReadRaw(strings.NewReader("city,rooms,bathroom,animal,total (R$)\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadRawMalformedRow(t *testing.T) {
	in := "city,rooms,bathroom,animal,rent amount (R$),total (R$)\nCampinas,2,1,acept,1000\n"
	_, err := ReadRaw(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadRawEmpty(t *testing.T) {
	_, err := ReadRaw(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCSVSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houses.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := NewCSVSource(path, utils.NewNopLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "Porto Alegre", ds.At(1).City)
	assert.Equal(t, 4960.0, ds.At(1).RentAmount)
	assert.Equal(t, 0, ds.At(2).Floor)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), utils.NewNopLogger()).Load(context.Background())
	assert.Error(t, err)
}

func TestCSVWriterRoundTrip(t *testing.T) {
	want := []models.Listing{
		{City: "Campinas", Area: 55, Rooms: 2, Bathroom: 1, Floor: 0, Animal: "not acept",
			Furniture: "not furnished", RentAmount: 900, Total: 1100},
		{City: "Belo Horizonte", Area: 60.5, Rooms: 3, Bathroom: 2, ParkingSpaces: 1, Floor: 4,
			Animal: "acept", Furniture: "furnished", HOA: 300, RentAmount: 1800, PropertyTax: 50,
			FireInsurance: 25, Total: 2175},
	}

	var buf bytes.Buffer
	w, err := NewCSVWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), want))
	require.NoError(t, w.Close())

	raw, err := ReadRaw(&buf)
	require.NoError(t, err)
	got, err := services.NewCleaner(utils.NewNopLogger()).Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	w, err := CreateCSVFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), []models.Listing{{City: "Campinas", Rooms: 1, Animal: "acept", RentAmount: 700, Total: 800}}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(Header, ",")))
	assert.Contains(t, string(data), "Campinas")
}
