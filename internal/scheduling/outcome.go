package scheduling

import "time"

// OutcomeKind tags the result of a scheduling turn.
type OutcomeKind string

const (
	// OutcomeAskClarify: no time expression could be resolved.
	OutcomeAskClarify OutcomeKind = "ask_clarify"
	// OutcomeRejected: the resolved time is in the past.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeNoSlots: nothing is free in the search window.
	OutcomeNoSlots OutcomeKind = "no_slots"
	// OutcomeOffHoursOnly: free slots exist, but none inside working hours.
	OutcomeOffHoursOnly OutcomeKind = "off_hours_only"
	// OutcomeAvailable: working-hours slots for an availability check.
	OutcomeAvailable OutcomeKind = "available"
	// OutcomeNearbySuggestions: the requested time is taken; alternatives offered.
	OutcomeNearbySuggestions OutcomeKind = "nearby_suggestions"
	// OutcomeBooked: an event was created.
	OutcomeBooked OutcomeKind = "booked"
	// OutcomeBookingFailed: the provider accepted the call but returned no link.
	OutcomeBookingFailed OutcomeKind = "booking_failed"
	// OutcomeProviderFailure: the calendar read or write errored.
	OutcomeProviderFailure OutcomeKind = "provider_failure"
)

// Outcome is the typed result the presentation layer renders into text.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	// Requested is the resolved time, zero when resolution failed.
	Requested time.Time `json:"requested,omitzero"`
	// Slot is the booked slot start for OutcomeBooked.
	Slot time.Time `json:"slot,omitzero"`
	// Link is the provider's event link for OutcomeBooked.
	Link string `json:"link,omitempty"`
	// Slots holds available slots or suggestions.
	Slots []time.Time `json:"slots,omitempty"`
	// Reason is a short machine-friendly explanation.
	Reason string `json:"reason,omitempty"`
	// Err is the underlying cause for OutcomeProviderFailure. Not serialized.
	Err error `json:"-"`
}

// IsFailure reports whether the outcome represents a provider problem.
func (o Outcome) IsFailure() bool {
	return o.Kind == OutcomeProviderFailure || o.Kind == OutcomeBookingFailed
}
