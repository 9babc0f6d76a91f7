package pulse

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Position is a single line of the portfolio file: a security and the number
// of units held. The file is externally owned; positions are loaded once per
// run and never written back by the briefing pipeline.
type Position struct {
	Symbol   string
	Quantity Quantity
}

// DecodePositions reads the portfolio CSV. The file must carry a header line
// with at least "Symbol" and "Quantity" columns; any other column is ignored.
func DecodePositions(r io.Reader) ([]Position, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading portfolio file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("portfolio file is empty")
	}

	symCol, qtyCol, err := positionColumns(records[0])
	if err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(records)-1)
	for i, rec := range records[1:] {
		qty, err := ParseQuantity(strings.TrimSpace(rec[qtyCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q: %w", i+2, rec[qtyCol], err)
		}
		positions = append(positions, Position{
			Symbol:   strings.TrimSpace(rec[symCol]),
			Quantity: qty,
		})
	}
	return positions, nil
}

// LoadPositions reads the portfolio CSV from disk.
func LoadPositions(path string) ([]Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening portfolio file: %w", err)
	}
	defer f.Close()
	return DecodePositions(f)
}

// positionColumns locates the Symbol and Quantity columns in the header.
func positionColumns(header []string) (symCol, qtyCol int, err error) {
	symCol, qtyCol = -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Symbol":
			symCol = i
		case "Quantity":
			qtyCol = i
		}
	}
	if symCol < 0 || qtyCol < 0 {
		return 0, 0, fmt.Errorf("portfolio file header %v must contain Symbol and Quantity", header)
	}
	return symCol, qtyCol, nil
}
