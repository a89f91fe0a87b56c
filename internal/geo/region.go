package geo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/avstrong/canchalibre/internal/booking"
)

type regionRule struct {
	all       []string
	canonical string
}

// Order matters: the provincial rule must win over the city rule for
// "Provincia de Buenos Aires", and the city rule covers "Ciudad Autónoma de Buenos Aires".
var regionRules = []regionRule{
	{all: []string{"buenos aires", "provincia"}, canonical: "Buenos Aires"},
	{all: []string{"ciudad autonoma"}, canonical: "CABA"},
	{all: []string{"caba"}, canonical: "CABA"},
	{all: []string{"capital federal"}, canonical: "CABA"},
	{all: []string{"cordoba"}, canonical: "Córdoba"},
	{all: []string{"neuquen"}, canonical: "Neuquén"},
	{all: []string{"rio negro"}, canonical: "Río Negro"},
	{all: []string{"misiones"}, canonical: "Misiones"},
}

// CanonicalRegion maps the geocoder's state name to the name the court API uses.
// Unknown names are title-cased.
func CanonicalRegion(raw string) string {
	folded := booking.NormalizeText(raw)
	if folded == "" {
		return ""
	}

	for _, rule := range regionRules {
		if containsAll(folded, rule.all) {
			return rule.canonical
		}
	}

	return cases.Title(language.Spanish).String(strings.TrimSpace(raw))
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}

	return true
}
