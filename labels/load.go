package labels

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	geojson "github.com/paulmach/go.geojson"
)

//go:embed data/kansas.csv
var defaultCities []byte

var ErrNoPoints = errors.New("labels: no points")

// cityRow is one CSV record.
type cityRow struct {
	City  string  `csv:"city"`
	State string  `csv:"state"`
	Lat   float64 `csv:"lat"`
	Lon   float64 `csv:"lon"`
	Pop   float64 `csv:"pop"`
}

// DefaultCities returns the built-in Kansas city set, weighted by population.
func DefaultCities() ([]Point, error) {
	return ReadCSV(bytes.NewReader(defaultCities))
}

// Load reads points from a .csv or .geojson/.json file.
func Load(path string) ([]Point, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads points from a CSV file with city, state, lat, lon and pop
// columns.
func LoadCSV(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cities: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV records into points.
func ReadCSV(r io.Reader) ([]Point, error) {
	var rows []cityRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, ErrNoPoints
		}
		return nil, fmt.Errorf("parsing cities: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoPoints
	}

	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, Point{
			Name:   row.City,
			State:  row.State,
			Lon:    row.Lon,
			Lat:    row.Lat,
			Weight: row.Pop,
		})
	}
	return points, nil
}

// LoadGeoJSON reads Point features from a FeatureCollection. Each feature
// needs a "name" property; the weight comes from "weight" or "pop" and
// defaults to 1.
func LoadGeoJSON(path string) ([]Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cities: %w", err)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON decodes a FeatureCollection of Point features.
func ParseGeoJSON(data []byte) ([]Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing cities: %w", err)
	}

	var points []Point
	for _, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() || len(f.Geometry.Point) < 2 {
			continue
		}
		name, err := f.PropertyString("name")
		if err != nil {
			continue
		}
		weight := 1.0
		if w, err := f.PropertyFloat64("weight"); err == nil {
			weight = w
		} else if w, err := f.PropertyFloat64("pop"); err == nil {
			weight = w
		}
		state, _ := f.PropertyString("state")

		points = append(points, Point{
			Name:   name,
			State:  state,
			Lon:    f.Geometry.Point[0],
			Lat:    f.Geometry.Point[1],
			Weight: weight,
		})
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	return points, nil
}
