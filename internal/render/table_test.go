package render

import (
	"bytes"
	"strings"
	"testing"

	"vitidata/internal/models"
)

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer

	Table(&buf, nil)

	if got := strings.TrimSpace(buf.String()); got != "(no records)" {
		t.Errorf("empty output = %q", got)
	}
}

func TestTableLayout(t *testing.T) {
	var buf bytes.Buffer

	Table(&buf, []models.Record{
		{"Ano": 2020, "Produto": "Tinto", "Quantidade (L.)": 139320884.0},
		{"Ano": 2020, "Produto": "Branco", "Quantidade (L.)": 27910299.0},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator, and 2 rows, got %d lines", len(lines))
	}

	// Columns follow the sorted key order of the first record.
	if !strings.HasPrefix(lines[0], "Ano") {
		t.Errorf("header = %q", lines[0])
	}

	if !strings.Contains(lines[0], "Produto") || !strings.Contains(lines[0], "Quantidade (L.)") {
		t.Errorf("header missing columns: %q", lines[0])
	}

	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator = %q", lines[1])
	}

	if !strings.Contains(lines[2], "Tinto") || !strings.Contains(lines[2], "139320884") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestTableTruncatesWideCells(t *testing.T) {
	var buf bytes.Buffer

	long := strings.Repeat("x", 100)
	Table(&buf, []models.Record{{"Produto": long}})

	for _, line := range strings.Split(buf.String(), "\n") {
		if len([]rune(line)) > maxCellWidth+1 {
			t.Errorf("line exceeds cell width cap: %q", line)
		}
	}

	if !strings.Contains(buf.String(), "…") {
		t.Error("expected truncation ellipsis")
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "Tinto", "Tinto"},
		{"float", 1234.5, "1234.5"},
		{"whole float", 1234.0, "1234"},
		{"int", 2020, "2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.value); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
