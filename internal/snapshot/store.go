// Package snapshot reads locally captured copies of the source data. The
// snapshots are CSV files in two shapes: wide (one column per year) and long
// (a year column per row); both are exposed as the same record sequence.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vitidata/internal/logger"
	"vitidata/internal/models"
	"vitidata/internal/taxonomy"
)

// ErrMalformedSnapshot indicates a snapshot file that could not be parsed.
var ErrMalformedSnapshot = errors.New("malformed snapshot file")

// Year columns in wide-shape files are plain 4-digit headers.
const (
	wideYearMin = 1900
	wideYearMax = 2100
)

// Store is a file-backed snapshot repository.
type Store struct {
	dir string
	sep rune
	log *logger.Logger
}

// New creates a snapshot store rooted at dir. separator defaults to ';',
// the delimiter the source site uses in its published CSV files.
func New(dir, separator string, log *logger.Logger) *Store {
	sep := ';'
	if separator != "" {
		sep = rune(separator[0])
	}

	return &Store{dir: dir, sep: sep, log: log}
}

// Read loads snapshot records for (category, subcategory), optionally
// filtered to a single year (year == 0 means no filter). A missing file is
// not an error: it returns an empty sequence so the caller can continue the
// fallback chain. An unknown category is a configuration error and surfaces.
func (s *Store) Read(category, subcategory string, year int) ([]models.Record, error) {
	filename, err := taxonomy.SnapshotFile(category, subcategory)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("snapshot file absent", "path", path)

			return nil, nil
		}

		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = s.sep
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSnapshot, path, err)
	}

	if len(rows) < 2 {
		return nil, nil
	}

	headers := rows[0]
	yearCols := yearColumns(headers)

	if len(yearCols) > 0 {
		return s.readWide(headers, rows[1:], yearCols, year), nil
	}

	return s.readLong(headers, rows[1:], year), nil
}

// yearColumns returns the indexes of headers that are plain 4-digit years.
func yearColumns(headers []string) map[int]int {
	cols := make(map[int]int)

	for i, h := range headers {
		y, err := strconv.Atoi(strings.TrimSpace(h))
		if err == nil && y >= wideYearMin && y <= wideYearMax {
			cols[i] = y
		}
	}

	return cols
}

// readWide pivots a one-column-per-year file into long records.
func (s *Store) readWide(headers []string, rows [][]string, yearCols map[int]int, year int) []models.Record {
	var records []models.Record

	for _, row := range rows {
		identity := models.Record{}

		for i, h := range headers {
			if _, isYear := yearCols[i]; isYear || i >= len(row) {
				continue
			}

			if strings.EqualFold(strings.TrimSpace(h), "id") {
				continue
			}

			identity[strings.TrimSpace(h)] = strings.TrimSpace(row[i])
		}

		for i, y := range yearCols {
			if year != 0 && y != year {
				continue
			}

			if i >= len(row) {
				continue
			}

			record := models.Record{}
			for k, v := range identity {
				record[k] = v
			}

			record["Quantidade"] = parseNumeric(row[i])
			record[models.YearField] = y

			records = append(records, record)
		}
	}

	return records
}

// readLong filters a year-per-row file directly.
func (s *Store) readLong(headers []string, rows [][]string, year int) []models.Record {
	yearIdx := -1

	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), models.YearField) {
			yearIdx = i

			break
		}
	}

	var records []models.Record

	for _, row := range rows {
		if year != 0 {
			if yearIdx < 0 || yearIdx >= len(row) {
				continue
			}

			y, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
			if err != nil || y != year {
				continue
			}
		}

		record := models.Record{}

		for i, h := range headers {
			if i >= len(row) {
				break
			}

			key := strings.TrimSpace(h)
			value := strings.TrimSpace(row[i])

			if i == yearIdx {
				if y, err := strconv.Atoi(value); err == nil {
					record[key] = y

					continue
				}
			}

			if isValueColumn(key) {
				record[key] = parseNumeric(value)

				continue
			}

			record[key] = value
		}

		records = append(records, record)
	}

	return records
}

// isValueColumn reports whether a long-shape column holds measurements.
func isValueColumn(name string) bool {
	lower := strings.ToLower(name)

	return strings.Contains(lower, "quantidade") ||
		strings.Contains(lower, "valor") ||
		strings.Contains(lower, "kg") ||
		strings.Contains(lower, "us$")
}

// parseNumeric converts a snapshot cell to float64, keeping the raw string
// when it does not parse. Snapshot files carry plain machine formatting,
// not the locale formatting of the live site.
func parseNumeric(value string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return strings.TrimSpace(value)
	}

	return f
}
