package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"rent-dashboard/models"
	"rent-dashboard/services"
	"rent-dashboard/utils"
)

// Column names of houses_to_rent_v2.csv.
const (
	ColCity          = "city"
	ColArea          = "area"
	ColRooms         = "rooms"
	ColBathroom      = "bathroom"
	ColParkingSpaces = "parking spaces"
	ColFloor         = "floor"
	ColAnimal        = "animal"
	ColFurniture     = "furniture"
	ColHOA           = "hoa (R$)"
	ColRentAmount    = "rent amount (R$)"
	ColPropertyTax   = "property tax (R$)"
	ColFireInsurance = "fire insurance (R$)"
	ColTotal         = "total (R$)"
)

// Header is the column order CSVWriter produces.
var Header = []string{
	ColCity, ColArea, ColRooms, ColBathroom, ColParkingSpaces, ColFloor, ColAnimal,
	ColFurniture, ColHOA, ColRentAmount, ColPropertyTax, ColFireInsurance, ColTotal,
}

var requiredColumns = []string{ColCity, ColRooms, ColBathroom, ColAnimal, ColRentAmount, ColTotal}

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("csv: missing required column")

// ReadRaw reads every data row of a listings CSV. Columns are matched by
// header name, so their order does not matter and unknown columns are
// ignored. A malformed row fails the whole read.
func ReadRaw(r io.Reader) ([]*models.RawListing, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var rows []*models.RawListing
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		get := func(col string) string {
			if i, ok := index[strings.ToLower(col)]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		rows = append(rows, &models.RawListing{
			Line:          line,
			City:          get(ColCity),
			Area:          get(ColArea),
			Rooms:         get(ColRooms),
			Bathroom:      get(ColBathroom),
			ParkingSpaces: get(ColParkingSpaces),
			Floor:         get(ColFloor),
			Animal:        get(ColAnimal),
			Furniture:     get(ColFurniture),
			HOA:           get(ColHOA),
			RentAmount:    get(ColRentAmount),
			PropertyTax:   get(ColPropertyTax),
			FireInsurance: get(ColFireInsurance),
			Total:         get(ColTotal),
		})
	}
	return rows, nil
}

// CSVSource loads the dataset from a CSV file on disk.
type CSVSource struct {
	path    string
	cleaner *services.Cleaner
	logger  *utils.Logger
}

// NewCSVSource creates a CSVSource for path.
func NewCSVSource(path string, logger *utils.Logger) *CSVSource {
	return &CSVSource{path: path, cleaner: services.NewCleaner(logger), logger: logger}
}

// Load reads and cleans the whole file.
func (s *CSVSource) Load(_ context.Context) (*models.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	raw, err := ReadRaw(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	listings, err := s.cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.logger.Info("[csv] Loaded %d listings from %s", len(listings), s.path)
	return models.NewDataset(listings), nil
}

// CSVWriter writes listings in the dataset's own CSV layout.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter writes the header row to w and returns a writer for the rows.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVWriter{writer: cw}, nil
}

// CreateCSVFile creates (or truncates) the file at path and writes the
// header row. Intermediate directories are created automatically.
func CreateCSVFile(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// Write appends listings as rows.
func (c *CSVWriter) Write(_ context.Context, listings []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.City,
			formatAmount(l.Area),
			strconv.Itoa(l.Rooms),
			strconv.Itoa(l.Bathroom),
			strconv.Itoa(l.ParkingSpaces),
			formatFloor(l.Floor),
			l.Animal,
			l.Furniture,
			formatAmount(l.HOA),
			formatAmount(l.RentAmount),
			formatAmount(l.PropertyTax),
			formatAmount(l.FireInsurance),
			formatAmount(l.Total),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if the writer owns one.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.file == nil {
		return c.writer.Error()
	}
	return c.file.Close()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloor(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
