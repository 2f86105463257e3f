package chat

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/cabin-booking-backend/internal/availability"
	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
	"github.com/nekogravitycat/cabin-booking-backend/internal/unit"
)

type finderCall struct {
	stay   daterange.DateRange
	guests int
}

type fakeFinder struct {
	offers []availability.Offer
	err    error
	calls  []finderCall
}

func (f *fakeFinder) FindAvailable(_ context.Context, stay daterange.DateRange, guests int) ([]availability.Offer, error) {
	f.calls = append(f.calls, finderCall{stay: stay, guests: guests})
	return f.offers, f.err
}

func cabinOffer(id, name string, capacity int, total int64) availability.Offer {
	return availability.Offer{
		Unit:   &unit.Unit{ID: id, Name: name, MaxOccupancy: capacity, BasePrice: decimal.NewFromInt(100), Active: true},
		Total:  decimal.NewFromInt(total),
		Nights: 2,
	}
}

var testOffers = []availability.Offer{
	cabinOffer("u-alder", "Alder", 4, 200),
	cabinOffer("u-cedar", "Cedar", 4, 220),
	cabinOffer("u-lodge", "Pine Lodge", 6, 300),
}

const testSecret = "test-secret"

func newTestResolver(finder AvailabilityFinder, now time.Time) (*Resolver, *JWTDeepLinker) {
	links := NewJWTDeepLinker(testSecret, "https://cabins.example.com/book", 48*time.Hour)
	r := NewResolver(finder, RegexGuestExtractor{}, links, ResolverConfig{
		MaxPartySize: 6,
		Location:     time.UTC,
		Now:          func() time.Time { return now },
	})
	return r, links
}

var august1 = time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)

func advance(t *testing.T, r *Resolver, sess Session, text string) (Session, Reply) {
	t.Helper()
	next, reply, err := r.Advance(context.Background(), sess, text)
	require.NoError(t, err)
	return next, reply
}

func TestAdvance_FieldsPersistAcrossMessages(t *testing.T) {
	finder := &fakeFinder{offers: testOffers}
	r, _ := newTestResolver(finder, august1)

	sess, reply := advance(t, r, NewSession("guest-1"), "4 people")
	assert.Equal(t, StateAwaitingDetails, sess.State)
	assert.Equal(t, 4, sess.Guests)
	assert.Equal(t, ReplyNeedDates, reply.Kind)
	assert.Empty(t, finder.calls)

	sess, reply = advance(t, r, sess, "Aug 16 to Aug 18")
	require.Len(t, finder.calls, 1)
	assert.Equal(t, 4, finder.calls[0].guests)
	assert.Equal(t, "2026-08-16/2026-08-18", finder.calls[0].stay.String())

	assert.Equal(t, StateAvailabilityShown, sess.State)
	assert.Equal(t, ReplyOffers, reply.Kind)
	require.Len(t, reply.Offers, 3)
	assert.Equal(t, 1, reply.Offers[0].Index)
	assert.Equal(t, "Alder", reply.Offers[0].Name)
	assert.Contains(t, reply.Text, "1. Alder")
	assert.Contains(t, reply.Text, "3. Pine Lodge")
}

func TestAdvance_GuestCountIsNotAnEndDay(t *testing.T) {
	finder := &fakeFinder{offers: testOffers}
	r, _ := newTestResolver(finder, august1)

	sess, reply := advance(t, r, NewSession("guest-1"), "Aug 20 - 4 people")
	assert.Equal(t, ReplyNeedDates, reply.Kind)
	assert.Equal(t, 4, sess.Guests)
	assert.Empty(t, finder.calls)
}

func TestAdvance_DatesFirstThenSpanishPartySize(t *testing.T) {
	finder := &fakeFinder{offers: testOffers}
	r, _ := newTestResolver(finder, august1)

	sess, reply := advance(t, r, NewSession("guest-1"), "del 16 al 18 de agosto")
	assert.Equal(t, ReplyNeedGuests, reply.Kind)
	assert.Contains(t, reply.Text, "Aug 16, 2026")
	assert.Empty(t, finder.calls)

	sess, reply = advance(t, r, sess, "somos cuatro")
	assert.Equal(t, ReplyOffers, reply.Kind)
	assert.Equal(t, StateAvailabilityShown, sess.State)
	require.Len(t, finder.calls, 1)
	assert.Equal(t, 4, finder.calls[0].guests)
}

func TestAdvance_LastMentionWins(t *testing.T) {
	r, _ := newTestResolver(&fakeFinder{}, august1)

	sess, _ := advance(t, r, NewSession("guest-1"), "4 people")
	sess, _ = advance(t, r, sess, "sorry, actually 2 people")
	assert.Equal(t, 2, sess.Guests)

	sess, _ = advance(t, r, sess, "3 guests, no wait, 5 guests")
	assert.Equal(t, 5, sess.Guests)
}

func TestAdvance_Gates(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		text      string
		wantKind  ReplyKind
		wantStay  bool
		wantGuest int
	}{
		{
			name:     "Party over the ceiling is rejected before anything else",
			now:      august1,
			text:     "We are 7 people",
			wantKind: ReplyTooManyGuests,
		},
		{
			name:      "Check-in before today",
			now:       time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
			text:      "May 1 to May 3, 2 people",
			wantKind:  ReplyCheckInPast,
			wantGuest: 2,
		},
		{
			name:      "Check-out before check-in",
			now:       august1,
			text:      "Aug 18 to Aug 16 for 2 guests",
			wantKind:  ReplyInvalidRange,
			wantGuest: 2,
		},
		{
			name:     "Nothing recognised",
			now:      august1,
			text:     "hello there",
			wantKind: ReplyPrompt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &fakeFinder{offers: testOffers}
			r, _ := newTestResolver(finder, tt.now)

			sess, reply := advance(t, r, NewSession("guest-1"), tt.text)
			assert.Equal(t, tt.wantKind, reply.Kind)
			assert.Equal(t, StateAwaitingDetails, sess.State)
			assert.Equal(t, tt.wantGuest, sess.Guests)
			_, hasStay := sess.Stay()
			assert.Equal(t, tt.wantStay, hasStay)
			assert.Empty(t, finder.calls, "no search may run")
		})
	}
}

func TestAdvance_CeilingWithDatesInSameMessage(t *testing.T) {
	finder := &fakeFinder{offers: testOffers}
	r, _ := newTestResolver(finder, august1)

	sess, reply := advance(t, r, NewSession("guest-1"), "Aug 16 to Aug 18 for 7 people")
	assert.Equal(t, ReplyTooManyGuests, reply.Kind)
	assert.Contains(t, reply.Text, "6")
	assert.Empty(t, finder.calls)

	// The dates were kept, so the party size alone completes the search.
	_, reply = advance(t, r, sess, "ok, 6 people")
	assert.Equal(t, ReplyOffers, reply.Kind)
	require.Len(t, finder.calls, 1)
}

func TestAdvance_CheckInTodayInPropertyTimeZone(t *testing.T) {
	finder := &fakeFinder{offers: testOffers}
	// 02:00 UTC on Aug 17 is still Aug 16 three hours west of UTC.
	now := time.Date(2026, time.August, 17, 2, 0, 0, 0, time.UTC)
	r := NewResolver(finder, RegexGuestExtractor{}, NewJWTDeepLinker(testSecret, "https://x.test/book", time.Hour), ResolverConfig{
		MaxPartySize: 6,
		Location:     time.FixedZone("UTC-3", -3*3600),
		Now:          func() time.Time { return now },
	})

	_, reply := advance(t, r, NewSession("guest-1"), "Aug 16 to Aug 18, 2 people")
	assert.Equal(t, ReplyOffers, reply.Kind)
}

func TestAdvance_NoAvailability(t *testing.T) {
	finder := &fakeFinder{}
	r, _ := newTestResolver(finder, august1)

	sess, reply := advance(t, r, NewSession("guest-1"), "Aug 16 to Aug 18, 2 people")
	assert.Equal(t, ReplyNoAvailability, reply.Kind)
	assert.Equal(t, StateAwaitingDetails, sess.State)
	assert.Equal(t, 2, sess.Guests)
	_, hasStay := sess.Stay()
	assert.False(t, hasStay)
}

func TestAdvance_RepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	r, _ := newTestResolver(&fakeFinder{err: boom}, august1)

	_, _, err := r.Advance(context.Background(), NewSession("guest-1"), "Aug 16 to Aug 18, 2 people")
	assert.ErrorIs(t, err, boom)
}

func shownSession(t *testing.T, r *Resolver) Session {
	t.Helper()
	sess, reply := advance(t, r, NewSession("guest-1"), "Aug 16 to Aug 18, 2 people")
	require.Equal(t, ReplyOffers, reply.Kind)
	return sess
}

func TestAdvance_FollowUps(t *testing.T) {
	r, links := newTestResolver(&fakeFinder{offers: testOffers}, august1)

	t.Run("Select by number returns a deep link", func(t *testing.T) {
		sess, reply := advance(t, r, shownSession(t, r), "2")
		assert.Equal(t, ReplyUnitDetail, reply.Kind)
		assert.Equal(t, StateAvailabilityShown, sess.State)
		assert.Contains(t, reply.Text, "Cedar")

		u, err := url.Parse(reply.DeepLink)
		require.NoError(t, err)
		assert.Equal(t, "cabins.example.com", u.Host)

		intent, err := links.Verify(u.Query().Get("token"))
		require.NoError(t, err)
		assert.Equal(t, "u-cedar", intent.UnitID)
		assert.Equal(t, 2, intent.Guests)
		assert.Equal(t, "2026-08-16/2026-08-18", intent.Stay.String())
		assert.True(t, decimal.NewFromInt(220).Equal(intent.Total))
	})

	t.Run("Select by option phrase and ordinal", func(t *testing.T) {
		_, reply := advance(t, r, shownSession(t, r), "option 3")
		assert.Equal(t, "u-lodge", reply.Offers[0].UnitID)

		_, reply = advance(t, r, shownSession(t, r), "the first one please")
		assert.Equal(t, "u-alder", reply.Offers[0].UnitID)
	})

	t.Run("Select by name prefers the longest match", func(t *testing.T) {
		_, reply := advance(t, r, shownSession(t, r), "I'd like the pine lodge")
		require.Equal(t, ReplyUnitDetail, reply.Kind)
		assert.Equal(t, "u-lodge", reply.Offers[0].UnitID)
	})

	t.Run("Number outside the list is not a selection", func(t *testing.T) {
		_, reply := advance(t, r, shownSession(t, r), "9")
		assert.Equal(t, ReplyFollowUp, reply.Kind)
	})

	t.Run("Other dates resets the search", func(t *testing.T) {
		sess, reply := advance(t, r, shownSession(t, r), "can we try other dates?")
		assert.Equal(t, ReplyNeedDates, reply.Kind)
		assert.Equal(t, StateAwaitingDetails, sess.State)
		assert.Empty(t, sess.Offers)
		assert.Equal(t, 2, sess.Guests)
	})

	t.Run("How to book", func(t *testing.T) {
		sess, reply := advance(t, r, shownSession(t, r), "How do I book?")
		assert.Equal(t, ReplyHowToBook, reply.Kind)
		assert.Equal(t, StateAvailabilityShown, sess.State)
	})

	t.Run("Anything else repeats the prompt", func(t *testing.T) {
		_, reply := advance(t, r, shownSession(t, r), "hmm nice")
		assert.Equal(t, ReplyFollowUp, reply.Kind)
	})
}

func TestAdvance_TerminalStates(t *testing.T) {
	finder := &fakeFinder{offers: testOffers}
	r, _ := newTestResolver(finder, august1)

	sess, reply := advance(t, r, NewSession("guest-1"), "4 people")
	sess, reply = advance(t, r, sess, "can I talk to a human?")
	assert.Equal(t, ReplyHandOff, reply.Kind)
	assert.Equal(t, StateHandedOff, sess.State)

	// A new message after hand-off starts a fresh conversation.
	sess, reply = advance(t, r, sess, "Aug 16 to Aug 18")
	assert.Equal(t, ReplyNeedGuests, reply.Kind)
	assert.Zero(t, sess.Guests)

	sess, reply = advance(t, r, sess, "cancel")
	assert.Equal(t, ReplyGoodbye, reply.Kind)
	assert.Equal(t, StateAbandoned, sess.State)
	_, hasStay := sess.Stay()
	assert.False(t, hasStay)
}
