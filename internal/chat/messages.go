package chat

import (
	"fmt"
	"strings"

	"github.com/nekogravitycat/cabin-booking-backend/internal/daterange"
)

const displayDate = "Jan 2, 2006"

const (
	msgGreeting = "Hi! I can check cabin availability and prices for you."

	msgPrompt = "Tell me your dates and how many guests, for example \"Aug 16 to Aug 18, 4 people\" " +
		"or \"del 16 al 18 de agosto, 2 personas\"."
	msgTooManyGuests  = "Our cabins host at most %d guests. For larger groups please book several cabins or ask for an agent. How many guests will stay in one cabin?"
	msgCheckInPast    = "Check-in on %s is in the past. Which dates would you like instead?"
	msgInvalidRange   = "Check-out (%s) has to be after check-in (%s). Could you send the dates again?"
	msgNeedGuests     = "Got it, %s. How many guests will be staying?"
	msgNeedDates      = "Got it, %d %s. Which dates would you like? For example \"Aug 16 to Aug 18\"."
	msgNoAvailability = "Sorry, nothing is free for %d %s from %s. Would you like to try other dates?"
	msgFollowUp       = "Reply with the number of a cabin to see it, \"other dates\" to search again, or \"how to book\"."
	msgNewDates       = "Sure. Which dates would you like to check?"
	msgHowToBook      = "Pick a cabin from the list by its number and I will send you a booking link. " +
		"The link keeps your dates, guests and price for a while. The reservation is held once you complete the form."
	msgHandOff = "I am passing you to a member of our team. They will reply here shortly."
	msgGoodbye = "No problem, I have cleared your search. Write again any time."
)

func plural(n int) string {
	if n == 1 {
		return "guest"
	}
	return "guests"
}

func formatStay(r daterange.DateRange) string {
	nights := r.Nights()
	unit := "nights"
	if nights == 1 {
		unit = "night"
	}
	return fmt.Sprintf("%s to %s (%d %s)", r.Start.Format(displayDate), r.End.Format(displayDate), nights, unit)
}

// formatOffers renders the ranked list the guest picks from.
func formatOffers(stay daterange.DateRange, guests int, offers []ShownOffer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Available for %d %s, %s:\n\n", guests, plural(guests), formatStay(stay))
	for _, o := range offers {
		fmt.Fprintf(&sb, "%d. %s (up to %d guests): %s total\n", o.Index, o.Name, o.MaxOccupancy, o.Total.StringFixed(2))
	}
	sb.WriteString("\n")
	sb.WriteString(msgFollowUp)
	return sb.String()
}

func formatUnitDetail(o ShownOffer, stay daterange.DateRange, guests int, link string) string {
	return fmt.Sprintf("%s sleeps up to %d. For %d %s, %s, the total is %s.\nBook here: %s",
		o.Name, o.MaxOccupancy, guests, plural(guests), formatStay(stay), o.Total.StringFixed(2), link)
}
