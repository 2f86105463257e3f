package chat

import (
	"regexp"
	"strconv"
	"strings"
)

// GuestCountExtractor finds a party size in free text.
type GuestCountExtractor interface {
	Extract(text string) (int, bool)
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"uno": 1, "una": 1, "dos": 2, "tres": 3, "cuatro": 4, "cinco": 5, "seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
}

const guestNumber = `(\d{1,3}|one|two|three|four|five|six|seven|eight|nine|ten|uno|una|dos|tres|cuatro|cinco|seis|siete|ocho|nueve|diez)`

const childNoun = `(?:kids?|children|child|niños?|ninos?|menores|chicos?)`

// guestPatterns capture the count in group 1. "4 people", "party of 4", "somos cuatro".
var guestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b` + guestNumber + `\s+(?:adults?|people|persons?|guests?|pax|ppl|of us|personas?|huespedes|huéspedes|adultos?|` + childNoun + `)\b`),
	regexp.MustCompile(`\b(?:party of|group of|we are|we're|there are|there will be|somos|seremos)\s+` + guestNumber + `\b`),
}

// mixedPartyPattern captures adults in group 1 and children in group 2: "4 adults and 2 kids".
var mixedPartyPattern = regexp.MustCompile(`\b` + guestNumber + `\s+(?:adults?|adultos?|grown-?ups)\s*(?:,|and|y|\+|plus)\s*` + guestNumber + `\s+` + childNoun + `\b`)

var couplePattern = regexp.MustCompile(`\b(?:a couple|my (?:wife|husband|partner) and i|en pareja)\b`)

// RegexGuestExtractor reads party sizes in English and Spanish. When several are
// mentioned the last one counts.
type RegexGuestExtractor struct{}

func (RegexGuestExtractor) Extract(text string) (int, bool) {
	lower := strings.ToLower(text)

	count, pos := 0, -1
	mixed := mixedPartyPattern.FindAllStringSubmatchIndex(lower, -1)
	for _, m := range mixed {
		adults, ok := guestValue(lower[m[2]:m[3]])
		if !ok {
			continue
		}
		children, ok := guestValue(lower[m[4]:m[5]])
		if !ok {
			continue
		}
		count, pos = adults+children, m[0]
	}
	for _, re := range guestPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(lower, -1) {
			if m[0] <= pos || insideAny(mixed, m[0]) {
				continue
			}
			n, ok := guestValue(lower[m[2]:m[3]])
			if !ok {
				continue
			}
			count, pos = n, m[0]
		}
	}
	if pos >= 0 {
		return count, true
	}
	if couplePattern.MatchString(lower) {
		return 2, true
	}
	return 0, false
}

// insideAny reports whether offset falls within one of the matched spans.
func insideAny(spans [][]int, offset int) bool {
	for _, s := range spans {
		if offset >= s[0] && offset < s[1] {
			return true
		}
	}
	return false
}

func guestValue(s string) (int, bool) {
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
