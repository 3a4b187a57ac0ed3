package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions names the identifier columns of a candidate CSV. Every other
// column whose cell parses as a number becomes an attribute.
type CSVOptions struct {
	CodeColumn string
	NameColumn string
	Comma      rune
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.CodeColumn == "" {
		o.CodeColumn = "codigo"
	}
	if o.NameColumn == "" {
		o.NameColumn = "Nombre"
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	return o
}

// ReadCSV parses a candidate dataset. Blank and non-numeric cells are left
// out of the attribute map rather than stored as zero.
func ReadCSV(r io.Reader, opts CSVOptions) ([]Candidate, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	codeIdx, nameIdx := -1, -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		switch header[i] {
		case opts.CodeColumn:
			codeIdx = i
		case opts.NameColumn:
			nameIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("csv: missing identifier column %q", opts.CodeColumn)
	}

	var out []Candidate
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if codeIdx >= len(rec) || strings.TrimSpace(rec[codeIdx]) == "" {
			return nil, fmt.Errorf("csv: line %d has no %s", line, opts.CodeColumn)
		}

		c := Candidate{
			Code:       strings.TrimSpace(rec[codeIdx]),
			Attributes: make(map[string]float64),
		}
		if nameIdx >= 0 && nameIdx < len(rec) {
			c.Name = strings.TrimSpace(rec[nameIdx])
		}
		for i, cell := range rec {
			if i == codeIdx || i == nameIdx || i >= len(header) {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			c.Attributes[header[i]] = v
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadCSVFile reads a candidate dataset from disk.
func LoadCSVFile(path string, opts CSVOptions) ([]Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, opts)
}
