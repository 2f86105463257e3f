package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

type ReplyKind string

const (
	ReplyPrompt         ReplyKind = "prompt"
	ReplyNeedGuests     ReplyKind = "need_guests"
	ReplyNeedDates      ReplyKind = "need_dates"
	ReplyTooManyGuests  ReplyKind = "too_many_guests"
	ReplyCheckInPast    ReplyKind = "check_in_past"
	ReplyInvalidRange   ReplyKind = "invalid_range"
	ReplyNoAvailability ReplyKind = "no_availability"
	ReplyOffers         ReplyKind = "offers"
	ReplyUnitDetail     ReplyKind = "unit_detail"
	ReplyHowToBook      ReplyKind = "how_to_book"
	ReplyFollowUp       ReplyKind = "follow_up"
	ReplyHandOff        ReplyKind = "handed_off"
	ReplyGoodbye        ReplyKind = "abandoned"
	ReplyTopic          ReplyKind = "topic"
	ReplyDisabled       ReplyKind = "disabled"
)

// Reply is what the guest is told.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Offers   []ShownOffer
	DeepLink string
}

type AvailabilityFinder interface {
	FindAvailable(ctx context.Context, stay daterange.DateRange, guests int) ([]availability.Offer, error)
}

type ResolverConfig struct {
	// MaxPartySize is the largest party any single cabin takes.
	MaxPartySize int
	// Location decides the calendar day used for "today" and the default year.
	Location *time.Location
	Now      func() time.Time
}

// Resolver drives the booking conversation. Its only I/O is the availability
// search; sessions are loaded and saved by the caller.
type Resolver struct {
	finder   AvailabilityFinder
	guests   GuestCountExtractor
	links    DeepLinker
	maxParty int
	loc      *time.Location
	now      func() time.Time
}

func NewResolver(finder AvailabilityFinder, guests GuestCountExtractor, links DeepLinker, cfg ResolverConfig) *Resolver {
	r := &Resolver{
		finder:   finder,
		guests:   guests,
		links:    links,
		maxParty: cfg.MaxPartySize,
		loc:      cfg.Location,
		now:      cfg.Now,
	}
	if r.loc == nil {
		r.loc = time.UTC
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

var (
	handOffPattern    = regexp.MustCompile(`\b(?:human|agent|operator|representative|real person|someone real|humano|agente|asesor|operador|una persona real)\b`)
	abandonPattern    = regexp.MustCompile(`^(?:cancel|stop|quit|exit|bye|goodbye|never ?mind|forget it|cancelar|salir|adios|adiós|chau|olvidalo|olvídalo)[\s.!]*$`)
	otherDatesPattern = regexp.MustCompile(`\b(?:other|different|new|another|change(?: the)?) dates?\b|\bsearch again\b|\botras? fechas?\b|\bcambiar (?:las )?fechas\b`)
	howToBookPattern  = regexp.MustCompile(`\bhow (?:do i |can i |to )?(?:book|reserve)\b|\bc[oó]mo (?:reservo|reservar|hago (?:la|una) reserva)\b`)
	selectionPattern  = regexp.MustCompile(`^(?:#|option|number|no\.?|cabin|the|opcion|opción|numero|número|la|el)?\s*(\d{1,2})(?:st|nd|rd|th)?[\s.!)]*$`)
)

// ordinals converts ordinal words to list positions.
var ordinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5, "sixth": 6,
	"primera": 1, "segunda": 2, "tercera": 3, "cuarta": 4, "quinta": 5, "sexta": 6,
	"primero": 1, "segundo": 2, "tercero": 3, "cuarto": 4, "quinto": 5, "sexto": 6,
}

// Advance applies one guest message to sess and returns the next session and the reply.
// Validation problems become replies; only availability lookup failures are returned as errors.
func (r *Resolver) Advance(ctx context.Context, sess Session, text string) (Session, Reply, error) {
	now := r.now().In(r.loc)

	if sess.State.Terminal() {
		sess = sess.restart()
	}
	if sess.State == StateInitial || sess.State == "" {
		sess.State = StateAwaitingDetails
	}
	sess.UpdatedAt = now.UTC()

	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case handOffPattern.MatchString(lower):
		sess.State = StateHandedOff
		return sess, Reply{Kind: ReplyHandOff, Text: msgHandOff}, nil
	case abandonPattern.MatchString(lower):
		sess = sess.restart()
		sess.State = StateAbandoned
		return sess, Reply{Kind: ReplyGoodbye, Text: msgGoodbye}, nil
	}

	if sess.State == StateAvailabilityShown {
		return r.followUp(sess, lower)
	}
	return r.gather(ctx, sess, text, now)
}

// Understands reports whether text carries dates or a party size.
func (r *Resolver) Understands(text string) bool {
	if _, ok := r.guests.Extract(text); ok {
		return true
	}
	_, err := daterange.Parse(text, r.now().In(r.loc).Year())
	return err == nil
}

func (r *Resolver) gather(ctx context.Context, sess Session, text string, now time.Time) (Session, Reply, error) {
	if n, ok := r.guests.Extract(text); ok {
		sess.Guests = n
	}
	parsed, err := daterange.Parse(text, now.Year())
	if err == nil {
		sess.setStay(parsed)
	} else {
		var failure *daterange.ParseFailure
		if !errors.As(err, &failure) {
			return sess, Reply{}, err
		}
	}

	if sess.Guests > r.maxParty {
		sess.Guests = 0
		return sess, Reply{Kind: ReplyTooManyGuests, Text: fmt.Sprintf(msgTooManyGuests, r.maxParty)}, nil
	}

	stay, hasStay := sess.Stay()
	if hasStay {
		if stay.Start.Before(daterange.Truncate(now)) {
			sess.clearStay()
			return sess, Reply{Kind: ReplyCheckInPast, Text: fmt.Sprintf(msgCheckInPast, stay.Start.Format(displayDate))}, nil
		}
		if !stay.Valid() {
			sess.clearStay()
			return sess, Reply{
				Kind: ReplyInvalidRange,
				Text: fmt.Sprintf(msgInvalidRange, stay.End.Format(displayDate), stay.Start.Format(displayDate)),
			}, nil
		}
	}

	switch {
	case hasStay && sess.Guests > 0:
		offers, err := r.finder.FindAvailable(ctx, stay, sess.Guests)
		if err != nil {
			return sess, Reply{}, err
		}
		if len(offers) == 0 {
			sess.clearStay()
			return sess, Reply{
				Kind: ReplyNoAvailability,
				Text: fmt.Sprintf(msgNoAvailability, sess.Guests, plural(sess.Guests), formatStay(stay)),
			}, nil
		}
		sess.State = StateAvailabilityShown
		sess.Offers = toShown(offers)
		return sess, Reply{Kind: ReplyOffers, Text: formatOffers(stay, sess.Guests, sess.Offers), Offers: sess.Offers}, nil
	case hasStay:
		return sess, Reply{Kind: ReplyNeedGuests, Text: fmt.Sprintf(msgNeedGuests, formatStay(stay))}, nil
	case sess.Guests > 0:
		return sess, Reply{Kind: ReplyNeedDates, Text: fmt.Sprintf(msgNeedDates, sess.Guests, plural(sess.Guests))}, nil
	default:
		return sess, Reply{Kind: ReplyPrompt, Text: msgPrompt}, nil
	}
}

func (r *Resolver) followUp(sess Session, lower string) (Session, Reply, error) {
	switch {
	case otherDatesPattern.MatchString(lower):
		sess.State = StateAwaitingDetails
		sess.Offers = nil
		sess.clearStay()
		return sess, Reply{Kind: ReplyNeedDates, Text: msgNewDates}, nil
	case howToBookPattern.MatchString(lower):
		return sess, Reply{Kind: ReplyHowToBook, Text: msgHowToBook}, nil
	}

	offer, ok := selectOffer(lower, sess.Offers)
	if !ok {
		return sess, Reply{Kind: ReplyFollowUp, Text: msgFollowUp}, nil
	}

	stay, _ := sess.Stay()
	link, err := r.links.Link(BookingIntent{
		UnitID:   offer.UnitID,
		UnitName: offer.Name,
		Stay:     stay,
		Guests:   sess.Guests,
		Total:    offer.Total,
	})
	if err != nil {
		return sess, Reply{}, err
	}
	return sess, Reply{
		Kind:     ReplyUnitDetail,
		Text:     formatUnitDetail(offer, stay, sess.Guests, link),
		Offers:   []ShownOffer{offer},
		DeepLink: link,
	}, nil
}

// selectOffer finds the listed unit the guest pointed at, by list number,
// ordinal word or name.
func selectOffer(lower string, offers []ShownOffer) (ShownOffer, bool) {
	if len(offers) == 0 {
		return ShownOffer{}, false
	}

	index := 0
	if m := selectionPattern.FindStringSubmatch(lower); m != nil {
		index, _ = strconv.Atoi(m[1])
	}
	if index == 0 {
		for _, word := range strings.Fields(lower) {
			if n, ok := ordinals[strings.Trim(word, ".,!?")]; ok {
				index = n
				break
			}
		}
	}
	if index >= 1 && index <= len(offers) {
		return offers[index-1], true
	}

	// Longest name first so "Pine Lodge" beats "Pine".
	byName := make([]ShownOffer, len(offers))
	copy(byName, offers)
	sort.SliceStable(byName, func(i, j int) bool { return len(byName[i].Name) > len(byName[j].Name) })
	for _, o := range byName {
		if o.Name != "" && strings.Contains(lower, strings.ToLower(o.Name)) {
			return o, true
		}
	}
	return ShownOffer{}, false
}

func toShown(offers []availability.Offer) []ShownOffer {
	shown := make([]ShownOffer, len(offers))
	for i, o := range offers {
		shown[i] = ShownOffer{
			Index:        i + 1,
			UnitID:       o.Unit.ID,
			Name:         o.Unit.Name,
			MaxOccupancy: o.Unit.MaxOccupancy,
			Total:        o.Total,
			Nights:       o.Nights,
		}
	}
	return shown
}
