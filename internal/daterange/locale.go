package daterange

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// monthNames maps English and Spanish month names and abbreviations to months.
// Read-only after init.
var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January, "enero": time.January, "ene": time.January,
	"february": time.February, "feb": time.February, "febrero": time.February,
	"march": time.March, "mar": time.March, "marzo": time.March,
	"april": time.April, "apr": time.April, "abril": time.April, "abr": time.April,
	"may": time.May, "mayo": time.May,
	"june": time.June, "jun": time.June, "junio": time.June,
	"july": time.July, "jul": time.July, "julio": time.July,
	"august": time.August, "aug": time.August, "agosto": time.August, "ago": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"septiembre": time.September, "setiembre": time.September,
	"october": time.October, "oct": time.October, "octubre": time.October,
	"november": time.November, "nov": time.November, "noviembre": time.November,
	"december": time.December, "dec": time.December, "diciembre": time.December, "dic": time.December,
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	"–", "-", "—", "-", ",", " ",
)

// Regex fragments shared by the grammars. Capturing groups are noted per fragment.
var (
	// monthPat captures one month name.
	monthPat = `\b(` + monthAlternation() + `)\b\.?`
	// dayPat captures one day of month, with an optional English ordinal suffix.
	dayPat = `\b(\d{1,2})(?:st|nd|rd|th)?\b`
	// yearPat captures one four digit year ("2026", "de 2026", "of 2026").
	yearPat = `(?:\s+(?:de\s+|del\s+|of\s+)?(\d{4}))`
	// connPat joins the two bounds of a range; no captures.
	connPat = `(?:\s*-\s*|\s+(?:to|until|till|through|thru|and|al|a|hasta|y)\s+)(?:the\s+|el\s+)?`

	// dmPat: day then month ("16 august", "the 16th of august", "16 de agosto"). Captures day, month.
	dmPat = `(?:the\s+|el\s+)?` + dayPat + `\s+(?:of\s+|de\s+)?` + monthPat
	// mdPat: month then day ("aug 16", "august the 16th"). Captures month, day.
	mdPat = monthPat + `\s+(?:the\s+)?` + dayPat
	// numPat: numeric day/month with an optional year. Captures day, month, year.
	numPat = `\b(\d{1,2})[/.-](\d{1,2})(?:[/.-](\d{4}))?\b`
)

// partyTail matches normalized text that opens with a people noun, i.e. what is
// left of a message after a guest count ("4 people", "3 personas").
var partyTail = regexp.MustCompile(`^\s*(?:adults?|people|persons?|guests?|pax|ppl|of us|kids?|child|children|personas?|huespedes|adultos?|ninos?|menores|chicos)\b`)

// monthAlternation lists month names longest first so that "sept" wins over "sep".
func monthAlternation() string {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}

// normalize lowercases text, folds accents and punctuation, and collapses whitespace.
func normalize(text string) string {
	folded := accentFolder.Replace(strings.ToLower(text))
	return strings.Join(strings.Fields(folded), " ")
}
