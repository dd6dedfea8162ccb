// Package barcode expands one barcode value into every plausible encoding,
// so catalog cells damaged by spreadsheet formatting still match scans.
package barcode

import "strings"

type Origin uint8

const (
	OriginScan Origin = iota
	OriginCatalogCell
)

func (o Origin) String() string {
	if o == OriginCatalogCell {
		return "catalog"
	}
	return "scan"
}

// Expand returns ordered distinct variants: trimmed raw, digits-only,
// then derived forms. Order matters, lookup takes first hit.
// Input without digits yields only trimmed raw, possibly "".
func Expand(raw string, origin Origin) []string {
	vs := variants{list: make([]string, 0, 6)}
	trimmed := strings.TrimSpace(raw)
	vs.list = append(vs.list, trimmed)

	d := Digits(trimmed)
	if d == "" {
		return vs.list
	}
	vs.add(d)

	switch origin {
	case OriginCatalogCell:
		switch len(d) {
		case 11: // UPC-A lost leading zero to number formatting
			vs.add("0" + d)
		case 12:
			vs.add("0" + d) // EAN-13
			vs.add(strings.TrimLeft(d, "0"))
		case 13:
			if d[0] == '0' {
				vs.add(d[1:])
			}
		case 14:
			vs.gtin(d)
		}

	case OriginScan:
		switch len(d) {
		case 11:
			vs.add("0" + d)
		case 12, 13:
			if d[0] == '0' {
				vs.add(d[1:])
			}
		case 14:
			vs.gtin(d)
		}
	}
	return vs.list
}

// Digits keeps only ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

type variants struct{ list []string }

func (vs *variants) add(v string) {
	if v == "" {
		return
	}
	for _, x := range vs.list {
		if x == v {
			return
		}
	}
	vs.list = append(vs.list, v)
}

// GTIN-14: fully stripped form first, then EAN-13 and UPC-A reductions
// by dropping leading zeros one at a time.
func (vs *variants) gtin(d string) {
	vs.add(strings.TrimLeft(d, "0"))
	if d[0] != '0' {
		return
	}
	ean := d[1:]
	vs.add(ean)
	if ean[0] == '0' {
		vs.add(ean[1:])
	}
}
