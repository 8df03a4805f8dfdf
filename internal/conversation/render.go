package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/meeting-assistant/internal/intent"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
)

const (
	clockLayout   = "03:04 PM"
	bookedLayout  = "Monday 03:04 PM"
	providerReply = "❌ Sorry, I couldn't reach the calendar right now. Please try again shortly."
)

// RenderOutcome turns a scheduling outcome into the chat reply for the flow
// that produced it. Times are shown in loc.
func RenderOutcome(flow intent.Intent, out scheduling.Outcome, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	booking := flow == intent.Book

	switch out.Kind {
	case scheduling.OutcomeAskClarify:
		if booking {
			return "❌ Could not understand when to book. Try something like 'next Monday at 2 PM'."
		}
		return "❌ I couldn't understand the time. Try something like 'this Friday afternoon'."
	case scheduling.OutcomeRejected:
		if booking {
			return "⚠ Cannot book meetings in the past."
		}
		return "⚠ That time is in the past. Please choose a future time."
	case scheduling.OutcomeNoSlots:
		if booking {
			return "😕 No available slots found during working hours."
		}
		return "😕 No available slots found."
	case scheduling.OutcomeOffHoursOnly:
		return "😕 Only midnight/early morning slots found."
	case scheduling.OutcomeAvailable:
		return "🕒 Here are your free slots: " + formatClocks(out.Slots, loc)
	case scheduling.OutcomeNearbySuggestions:
		return fmt.Sprintf("❌ No slot available exactly at %s. Try one of these nearby: %s",
			out.Requested.In(loc).Format(clockLayout), formatClocks(out.Slots, loc))
	case scheduling.OutcomeBooked:
		return fmt.Sprintf("✅ Great! Your meeting is set for %s. [View Event](%s)",
			out.Slot.In(loc).Format(bookedLayout), out.Link)
	case scheduling.OutcomeBookingFailed:
		return "❌ Booking failed."
	default:
		return providerReply
	}
}

func formatClocks(slots []time.Time, loc *time.Location) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.In(loc).Format(clockLayout))
	}
	return strings.Join(parts, ", ")
}
