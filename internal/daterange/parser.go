package daterange

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ParseFailure reports free text that matched no known date grammar.
// Text is the original input, so callers can echo it in a clarification prompt.
type ParseFailure struct {
	Text string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("no date range recognised in %q", e.Text)
}

// civil is an unvalidated calendar date as read from text.
type civil struct {
	year  int
	month time.Month
	day   int
}

// valid reports whether the triple survives a round trip through time.Date,
// which rejects dates such as February 30 that time.Date would normalise.
func (c civil) valid() bool {
	if c.month < time.January || c.month > time.December || c.day < 1 {
		return false
	}
	y, m, d := c.date().Date()
	return y == c.year && m == c.month && d == c.day
}

func (c civil) date() time.Time {
	return Day(c.year, c.month, c.day)
}

func (c civil) before(o civil) bool {
	if c.year != o.year {
		return c.year < o.year
	}
	if c.month != o.month {
		return c.month < o.month
	}
	return c.day < o.day
}

// grammar is one surface form the parser understands.
type grammar struct {
	name    string
	extract func(text string, refYear int) (start, end civil, ok bool)
}

// grammars are tried in order; the first one producing two valid, distinct dates wins.
// Explicit years on both bounds come first, the loose "day month" scan comes last.
var grammars = []grammar{
	regexGrammar("iso-dual",
		`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`+connPat+`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`,
		func(m []string, _ int) (civil, civil) {
			return civil{atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3])},
				civil{atoi(m[4]), time.Month(atoi(m[5])), atoi(m[6])}
		}),
	regexGrammar("numeric-dual-year",
		`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`+connPat+`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`,
		func(m []string, _ int) (civil, civil) {
			return civil{atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1])},
				civil{atoi(m[6]), time.Month(atoi(m[5])), atoi(m[4])}
		}),
	regexGrammar("named-dual-year-dm",
		dmPat+yearPat+connPat+dmPat+yearPat,
		func(m []string, _ int) (civil, civil) {
			return civil{atoi(m[3]), monthOf(m[2]), atoi(m[1])},
				civil{atoi(m[6]), monthOf(m[5]), atoi(m[4])}
		}),
	regexGrammar("named-dual-year-md",
		mdPat+yearPat+connPat+mdPat+yearPat,
		func(m []string, _ int) (civil, civil) {
			return civil{atoi(m[3]), monthOf(m[1]), atoi(m[2])},
				civil{atoi(m[6]), monthOf(m[4]), atoi(m[5])}
		}),
	regexGrammar("named-cross-dm",
		dmPat+yearPat+`?`+connPat+dmPat+yearPat+`?`,
		func(m []string, ref int) (civil, civil) {
			start := civil{month: monthOf(m[2]), day: atoi(m[1])}
			end := civil{month: monthOf(m[5]), day: atoi(m[4])}
			return withYears(start, end, m[3], m[6], ref)
		}),
	regexGrammar("named-cross-md",
		mdPat+yearPat+`?`+connPat+mdPat+yearPat+`?`,
		func(m []string, ref int) (civil, civil) {
			start := civil{month: monthOf(m[1]), day: atoi(m[2])}
			end := civil{month: monthOf(m[4]), day: atoi(m[5])}
			return withYears(start, end, m[3], m[6], ref)
		}),
	regexGrammar("numeric-cross",
		numPat+connPat+numPat,
		func(m []string, ref int) (civil, civil) {
			start := civil{month: time.Month(atoi(m[2])), day: atoi(m[1])}
			end := civil{month: time.Month(atoi(m[5])), day: atoi(m[4])}
			return withYears(start, end, m[3], m[6], ref)
		}),
	regexGrammar("named-same-month-dm",
		`(?:the\s+|el\s+)?`+dayPat+connPat+dayPat+`\s+(?:of\s+|de\s+)?`+monthPat+yearPat+`?`,
		func(m []string, ref int) (civil, civil) {
			month := monthOf(m[3])
			return withYears(civil{month: month, day: atoi(m[1])}, civil{month: month, day: atoi(m[2])}, "", m[4], ref)
		}),
	regexGrammar("named-same-month-md",
		mdPat+connPat+dayPat+yearPat+`?`,
		func(m []string, ref int) (civil, civil) {
			month := monthOf(m[1])
			return withYears(civil{month: month, day: atoi(m[2])}, civil{month: month, day: atoi(m[3])}, "", m[4], ref)
		}),
	regexGrammar("numeric-same-month",
		dayPat+connPat+numPat,
		func(m []string, ref int) (civil, civil) {
			month := time.Month(atoi(m[3]))
			return withYears(civil{month: month, day: atoi(m[1])}, civil{month: month, day: atoi(m[2])}, "", m[4], ref)
		}),
	looseGrammar(),
}

// Parse converts a free-text date expression into a range. Bounds without a year
// take referenceYear. The returned range holds two distinct valid dates but is not
// guaranteed to be ordered; callers validate check-out after check-in themselves
// so that an inverted request can be answered with a specific correction.
func Parse(text string, referenceYear int) (DateRange, error) {
	r, _, err := parse(text, referenceYear)
	return r, err
}

func parse(text string, referenceYear int) (DateRange, string, error) {
	norm := normalize(text)
	for _, g := range grammars {
		start, end, ok := g.extract(norm, referenceYear)
		if !ok || !start.valid() || !end.valid() {
			continue
		}
		r := DateRange{Start: start.date(), End: end.date()}
		if r.Start.Equal(r.End) {
			continue
		}
		return r, g.name, nil
	}
	return DateRange{}, "", &ParseFailure{Text: text}
}

func regexGrammar(name, pattern string, build func(m []string, refYear int) (civil, civil)) grammar {
	re := regexp.MustCompile(pattern)
	return grammar{
		name: name,
		extract: func(text string, refYear int) (civil, civil, bool) {
			for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
				// "aug 20 - 4 people": the trailing number counts guests, not days.
				if partyTail.MatchString(text[loc[1]:]) {
					continue
				}
				start, end := build(submatches(text, loc), refYear)
				return start, end, true
			}
			return civil{}, civil{}, false
		},
	}
}

func submatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// looseGrammar picks the first two "day month" or "month day" mentions anywhere
// in the text, e.g. "arriving aug 16, leaving aug 18".
func looseGrammar() grammar {
	// Groups: 1 day, 2 month, 3 year | 4 month, 5 day, 6 year.
	re := regexp.MustCompile(dmPat + yearPat + `?|` + mdPat + yearPat + `?`)
	return grammar{
		name: "named-loose",
		extract: func(text string, refYear int) (civil, civil, bool) {
			matches := re.FindAllStringSubmatch(text, 2)
			if len(matches) < 2 {
				return civil{}, civil{}, false
			}
			start, startYear := looseTerm(matches[0])
			end, endYear := looseTerm(matches[1])
			start, end = withYears(start, end, startYear, endYear, refYear)
			return start, end, true
		},
	}
}

func looseTerm(m []string) (civil, string) {
	if m[1] != "" {
		return civil{month: monthOf(m[2]), day: atoi(m[1])}, m[3]
	}
	return civil{month: monthOf(m[4]), day: atoi(m[5])}, m[6]
}

// withYears fills in the years of two bounds. A bound without a year borrows the
// other's; with neither, the reference year applies to both. When borrowing puts
// the end before the start the borrowing bound moves one year so the range runs
// forward ("dec 28 2026 to jan 2").
func withYears(start, end civil, startYear, endYear string, refYear int) (civil, civil) {
	switch {
	case startYear != "" && endYear != "":
		start.year, end.year = atoi(startYear), atoi(endYear)
	case startYear != "":
		start.year = atoi(startYear)
		end.year = start.year
		if end.before(start) {
			end.year++
		}
	case endYear != "":
		end.year = atoi(endYear)
		start.year = end.year
		if end.before(start) {
			start.year--
		}
	default:
		start.year, end.year = refYear, refYear
	}
	return start, end
}

func monthOf(name string) time.Month {
	return monthNames[name]
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
