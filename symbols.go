package pulse

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSuffix is the NSE market suffix the price feed expects on tickers.
const DefaultSuffix = ".NS"

// SymbolTable maps mistaken or legacy ticker codes to the exchange's
// canonical form. The table lives in a YAML file owned by the user, so it can
// be versioned and extended without touching code.
type SymbolTable struct {
	suffix  string
	mapping map[string]string
}

// symbolFile is the on-disk shape of the table.
type symbolFile struct {
	Suffix  string            `yaml:"suffix"`
	Symbols map[string]string `yaml:"symbols"`
}

// NewSymbolTable builds a table from an in-memory mapping. An empty suffix
// defaults to the NSE one.
func NewSymbolTable(suffix string, mapping map[string]string) *SymbolTable {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if mapping == nil {
		mapping = map[string]string{}
	}
	return &SymbolTable{suffix: suffix, mapping: mapping}
}

// LoadSymbolTable reads the mapping table from its YAML file. A missing file
// yields an empty table: normalization then only strips the market suffix.
func LoadSymbolTable(path string) (*SymbolTable, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewSymbolTable("", nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading symbol table: %w", err)
	}
	var f symbolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing symbol table: %w", err)
	}
	return NewSymbolTable(f.Suffix, f.Symbols), nil
}

// Normalize maps a raw portfolio symbol to its canonical exchange code: the
// market suffix is stripped, then the result is looked up in the table. An
// unmapped symbol is returned stripped but otherwise unchanged.
//
// Normalize is idempotent as long as the table passes Validate.
func (t *SymbolTable) Normalize(raw string) string {
	sym := strings.TrimSuffix(strings.TrimSpace(raw), t.suffix)
	if canonical, ok := t.mapping[sym]; ok {
		return canonical
	}
	return sym
}

// Ticker returns the feed ticker for a canonical symbol, appending the market
// suffix when absent. Index tickers (prefixed with '^') are passed through.
func (t *SymbolTable) Ticker(symbol string) string {
	if strings.HasPrefix(symbol, "^") || strings.HasSuffix(symbol, t.suffix) {
		return symbol
	}
	return symbol + t.suffix
}

// Validate flags mappings that break idempotency: a mapping value that is
// itself a key remapping to something different.
func (t *SymbolTable) Validate() error {
	for from, to := range t.mapping {
		if again, ok := t.mapping[to]; ok && again != to {
			return fmt.Errorf("symbol table is not idempotent: %s -> %s -> %s", from, to, again)
		}
	}
	return nil
}

// RewriteCSV normalizes every Symbol value of the portfolio file in place.
// This is destructive: the previous content is first snapshotted to a .bak
// file next to the original. Quantities and any extra column are preserved
// untouched.
func (t *SymbolTable) RewriteCSV(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading portfolio file: %w", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return fmt.Errorf("parsing portfolio file: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("portfolio file is empty")
	}
	symCol, _, err := positionColumns(records[0])
	if err != nil {
		return err
	}

	for _, rec := range records[1:] {
		rec[symCol] = t.Normalize(rec[symCol])
	}

	// Snapshot before overwriting: the rewrite is not reversible once the
	// mapping has been applied.
	if err := os.WriteFile(path+".bak", data, 0644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewriting portfolio file: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("rewriting portfolio file: %w", err)
	}
	w.Flush()
	return w.Error()
}
