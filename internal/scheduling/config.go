package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// DateOrder says how an all-numeric date such as 6/10 is read.
type DateOrder string

const (
	MonthFirst DateOrder = "MDY"
	DayFirst   DateOrder = "DMY"
)

// Config carries the scheduling policy shared by the resolver, the slot finder
// and the negotiator.
type Config struct {
	// Location is the fixed timezone every instant is localized into.
	Location *time.Location
	// SlotDuration is the length of a bookable slot and the step of the slot walk.
	SlotDuration time.Duration
	// SearchWindow is how far past the resolved time the negotiator looks for slots.
	SearchWindow time.Duration
	// ExactMatchTolerance is the minute distance within the resolved hour that
	// still counts as the requested slot.
	ExactMatchTolerance time.Duration
	// WorkStartHour and WorkEndHour bound user-facing slots to [start, end).
	WorkStartHour int
	WorkEndHour   int
	// MaxSuggestions caps the alternatives offered when no exact slot exists.
	MaxSuggestions int
	// DefaultHour is applied when the user only names a date.
	DefaultHour int
	// DateOrder reads numeric dates; empty means MonthFirst.
	DateOrder DateOrder
	// AssistantName is written into created event descriptions.
	AssistantName string
}

// DefaultConfig is Asia/Kolkata with 30 minute slots, a 3 hour search window
// and a 10 minute match tolerance.
func DefaultConfig() Config {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	return Config{
		Location:            loc,
		SlotDuration:        30 * time.Minute,
		SearchWindow:        3 * time.Hour,
		ExactMatchTolerance: 10 * time.Minute,
		WorkStartHour:       7,
		WorkEndHour:         22,
		MaxSuggestions:      5,
		DefaultHour:         10,
		DateOrder:           MonthFirst,
		AssistantName:       "Meeting Assistant",
	}
}

// Validate reports the first setting that would make scheduling meaningless.
func (c Config) Validate() error {
	if c.Location == nil {
		return errors.New("scheduling: location is required")
	}
	if c.SlotDuration <= 0 {
		return fmt.Errorf("scheduling: slot duration must be positive, got %s", c.SlotDuration)
	}
	if c.SearchWindow < c.SlotDuration {
		return fmt.Errorf("scheduling: search window %s is shorter than one slot", c.SearchWindow)
	}
	if c.ExactMatchTolerance < 0 {
		return fmt.Errorf("scheduling: exact match tolerance must not be negative, got %s", c.ExactMatchTolerance)
	}
	if c.WorkStartHour < 0 || c.WorkEndHour > 24 || c.WorkStartHour >= c.WorkEndHour {
		return fmt.Errorf("scheduling: invalid working hours [%d, %d)", c.WorkStartHour, c.WorkEndHour)
	}
	if c.MaxSuggestions <= 0 {
		return fmt.Errorf("scheduling: max suggestions must be positive, got %d", c.MaxSuggestions)
	}
	if c.DefaultHour < 0 || c.DefaultHour > 23 {
		return fmt.Errorf("scheduling: default hour out of range: %d", c.DefaultHour)
	}
	switch c.DateOrder {
	case "", MonthFirst, DayFirst:
	default:
		return fmt.Errorf("scheduling: date order must be %s or %s, got %q", MonthFirst, DayFirst, c.DateOrder)
	}
	return nil
}

// LoadLocation resolves an IANA timezone name for Config.Location.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, errors.New("scheduling: timezone is required")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("scheduling: unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// InWorkingHours reports whether t's local hour falls inside [WorkStartHour, WorkEndHour).
func (c Config) InWorkingHours(t time.Time) bool {
	h := t.In(c.Location).Hour()
	return h >= c.WorkStartHour && h < c.WorkEndHour
}
