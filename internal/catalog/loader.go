// Package catalog loads and caches the read-only product catalog.
package catalog

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/truevizion/advisor-cli/internal/model"
)

// Column names expected in catalog files, matched case-insensitively.
const (
	colName      = "product_name"
	colType      = "product_type"
	colRiskLevel = "risk_level"
	colProfiles  = "suitable_risk_profiles"
	colPurposes  = "suitable_purposes"
	colMinTerm   = "min_term_months"
	colMinInvest = "min_investment"
	colReturnPct = "expected_annual_return_pct"
)

var requiredColumns = []string{
	colName, colType, colRiskLevel, colProfiles, colPurposes, colMinTerm, colMinInvest,
}

// Catalog is an immutable set of products loaded once per process.
type Catalog struct {
	products []model.Product
}

// New wraps an already-assembled product list in a Catalog.
func New(products []model.Product) *Catalog {
	return &Catalog{products: products}
}

// Products returns the catalog rows. The slice is shared read-only state and
// must not be mutated.
func (c *Catalog) Products() []model.Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// LoadFile loads a catalog from path, dispatching on extension
// (.csv or .xlsx).
func LoadFile(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: open %s", path)
		}
		defer f.Close()
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, eris.Errorf("catalog: unsupported catalog format %q", filepath.Ext(path))
	}
}

// LoadCSV parses a catalog from CSV. The first row must be a header carrying
// the expected columns; Expected_Annual_Return_pct is optional per row.
func LoadCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("catalog: empty catalog file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read header")
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: read row %d", line+1)
		}
		line++

		p, err := parseRow(record, cols, line)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return &Catalog{products: products}, nil
}

// LoadXLSX parses a catalog from the first sheet of an XLSX workbook.
func LoadXLSX(path string) (*Catalog, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("catalog: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("catalog: empty catalog sheet")
	}

	cols, err := columnIndex(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	var products []model.Product
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		p, err := parseRow(cells, cols, i+2)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return &Catalog{products: products}, nil
}

// columnIndex maps normalized header names to positions and checks that all
// required columns are present.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("catalog: missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int, line int) (model.Product, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field(colName)
	if name == "" {
		return model.Product{}, eris.Errorf("catalog: row %d: empty product name", line)
	}

	riskLevel, err := strconv.Atoi(field(colRiskLevel))
	if err != nil {
		return model.Product{}, eris.Wrapf(err, "catalog: row %d: risk level", line)
	}

	minTerm, err := strconv.Atoi(field(colMinTerm))
	if err != nil {
		return model.Product{}, eris.Wrapf(err, "catalog: row %d: min term", line)
	}
	if minTerm < 0 {
		return model.Product{}, eris.Errorf("catalog: row %d: min term must be >= 0", line)
	}

	minInvest, err := strconv.ParseFloat(field(colMinInvest), 64)
	if err != nil {
		return model.Product{}, eris.Wrapf(err, "catalog: row %d: min investment", line)
	}
	if minInvest < 0 {
		return model.Product{}, eris.Errorf("catalog: row %d: min investment must be >= 0", line)
	}

	profiles, err := parseRiskProfiles(field(colProfiles))
	if err != nil {
		return model.Product{}, eris.Wrapf(err, "catalog: row %d", line)
	}
	if len(profiles) == 0 {
		return model.Product{}, eris.Errorf("catalog: row %d: no suitable risk profiles", line)
	}

	purposes, err := parsePurposes(field(colPurposes))
	if err != nil {
		return model.Product{}, eris.Wrapf(err, "catalog: row %d", line)
	}

	p := model.Product{
		Name:                 name,
		Type:                 field(colType),
		RiskLevel:            riskLevel,
		SuitableRiskProfiles: profiles,
		SuitablePurposes:     purposes,
		MinInvestment:        minInvest,
		MinTermMonths:        minTerm,
	}

	// Expected return is optional: blank, "NA", or non-numeric means no rate.
	if raw := field(colReturnPct); raw != "" && !strings.EqualFold(raw, "na") && !strings.EqualFold(raw, "n/a") {
		rate, err := strconv.ParseFloat(raw, 64)
		if err == nil && !math.IsNaN(rate) {
			p.ExpectedReturnPct = &rate
		}
	}

	return p, nil
}

// parseRiskProfiles splits a delimited label field into a set of risk
// profiles. Parsing labels at load time replaces the fragile
// substring-containment matching the catalog format was originally read
// with; a label that is a prefix of another can no longer false-positive.
func parseRiskProfiles(raw string) ([]model.RiskProfile, error) {
	var out []model.RiskProfile
	for _, label := range splitLabels(raw) {
		rp := model.RiskProfile(label)
		if !rp.Valid() {
			return nil, eris.Errorf("unknown risk profile label %q", label)
		}
		out = append(out, rp)
	}
	return out, nil
}

func parsePurposes(raw string) ([]model.InvestmentPurpose, error) {
	var out []model.InvestmentPurpose
	for _, label := range splitLabels(raw) {
		p := model.InvestmentPurpose(label)
		if !p.Valid() {
			return nil, eris.Errorf("unknown purpose label %q", label)
		}
		out = append(out, p)
	}
	return out, nil
}

// splitLabels breaks a "Balanced; Growth" style field into trimmed labels.
// Commas, semicolons, and pipes are all accepted as delimiters; the profile
// and purpose vocabularies are delimiter-free so splitting is unambiguous.
func splitLabels(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	var out []string
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func rowToStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
