package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"property-search/models"
)

var csvHeader = []string{
	"id", "title", "price", "location", "island", "type", "bedrooms",
	"bathrooms", "area", "price_per_area", "beach_distance", "status",
	"features", "saved_at",
}

// CSVWriter exports a result list to CSV. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	cw, err := newCSVWriter(f, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return cw, nil
}

func newCSVWriter(w io.Writer, closer io.Closer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVWriter{closer: closer, writer: cw}, nil
}

// WriteProperties appends one row per property, in the given order.
func (c *CSVWriter) WriteProperties(properties []*models.Property) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range properties {
		beach := ""
		if p.BeachDistance != nil {
			beach = formatFloat(*p.BeachDistance)
		}
		ppa, _ := p.PriceArea()
		row := []string{
			p.ID,
			p.Title,
			formatFloat(p.Price),
			p.Location,
			p.Island,
			p.Type,
			strconv.Itoa(p.Bedrooms),
			strconv.Itoa(p.Bathrooms),
			formatFloat(p.Area),
			formatFloat(ppa),
			beach,
			string(p.Status),
			strings.Join(p.Features, "; "),
			formatTime(p.SavedAt),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file. Both a flush and a close
// failure are reported.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	flushErr := c.writer.Error()
	if c.closer == nil {
		return flushErr
	}
	return errors.Join(flushErr, c.closer.Close())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
