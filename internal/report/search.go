package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining diacritical marks, so "Đặng" and
// "dang" compare equal up to the đ/d distinction handled below.
func Fold(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	// NFD does not decompose the Vietnamese đ; map it by hand.
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
	return strings.ToLower(folded)
}

// SearchPatients returns patients whose name, medical id or ward contains
// the query as a diacritic-insensitive, case-insensitive substring. An
// empty query matches nothing.
func SearchPatients(patients []*patient.Patient, query string) []*patient.Patient {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []*patient.Patient
	for _, p := range patients {
		if strings.Contains(Fold(p.Name), q) ||
			strings.Contains(Fold(p.MedicalID), q) ||
			strings.Contains(Fold(p.Ward), q) {
			out = append(out, p)
		}
	}
	return out
}
