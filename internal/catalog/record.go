package catalog

import "strings"

// Sheet column layout, first row is header.
const (
	ColUPC = iota
	ColBrand
	ColName
	ColUnused
	ColSize
	ColCalories
	ColSugar
	ColSodium
	ColPrice
	ColTaxable
	ColOnHand
	ColImage
	ColumnCount
)

// Record is one canonical catalog row. Many variant keys point to the same *Record.
type Record struct {
	UPC      string
	Brand    string
	Name     string
	Size     string
	Calories string
	Sugar    string
	Sodium   string
	Price    string
	Taxable  string
	OnHand   string
	Image    string
}

// RecordFromRow tolerates short rows, missing cells are empty.
func RecordFromRow(row []string) *Record {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return &Record{
		UPC:      cell(ColUPC),
		Brand:    cell(ColBrand),
		Name:     cell(ColName),
		Size:     cell(ColSize),
		Calories: cell(ColCalories),
		Sugar:    cell(ColSugar),
		Sodium:   cell(ColSodium),
		Price:    cell(ColPrice),
		Taxable:  cell(ColTaxable),
		OnHand:   cell(ColOnHand),
		Image:    cell(ColImage),
	}
}

// DisplayName is "<brand> <name> <size>" skipping empty parts.
func (r *Record) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{r.Brand, r.Name, r.Size} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
