package scheduling

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoTimeFound is returned when no expression in the text resolves to a
// future instant.
var ErrNoTimeFound = errors.New("scheduling: no future time expression found")

// TimeResolver turns free text into the single instant a user is asking about.
type TimeResolver interface {
	Resolve(text string, now time.Time) (time.Time, error)
}

// Resolver extracts dates and clock times from English free text. It prefers
// future readings: a weekday that already passed this week means next week, a
// month/day that already passed this year means next year, an ordinal day that
// already passed this month means next month, and a bare clock time that
// already passed today means tomorrow.
type Resolver struct {
	loc         *time.Location
	defaultHour int
	dateOrder   DateOrder
}

// NewResolver builds a resolver bound to cfg's timezone, default hour and
// numeric date order.
func NewResolver(cfg Config) *Resolver {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	order := cfg.DateOrder
	if order == "" {
		order = MonthFirst
	}
	return &Resolver{loc: loc, defaultHour: cfg.DefaultHour, dateOrder: order}
}

// Resolve returns the first expression, in reading order, that lands strictly
// after now. A date with no time of day gets the configured default hour. Text
// holding a date-shaped token that is not a real date resolves to nothing.
func (r *Resolver) Resolve(text string, now time.Time) (time.Time, error) {
	now = now.In(r.loc)
	found, ok := r.candidates(strings.ToLower(text), now)
	if !ok {
		return time.Time{}, ErrNoTimeFound
	}
	for _, c := range found {
		if c.After(now) {
			return c, nil
		}
	}
	return time.Time{}, ErrNoTimeFound
}

type clock struct {
	hour, minute int
}

type half int

const (
	eitherHalf half = iota
	amHalf
	pmHalf
)

func halfOf(c clock) half {
	if c.hour >= 12 {
		return pmHalf
	}
	return amHalf
}

type dateMention struct {
	start, end int
	day        time.Time // local midnight
	clock      *clock    // implied time of day, e.g. "tonight"
	half       half
	// roll steps the combined instant forward when it is not in the future.
	roll func(time.Time) time.Time
}

type timeMention struct {
	start, end int
	clock      clock
	vague      bool // "morning", "afternoon", ...
	bareHour   bool // 1-12 with no am/pm
	guessPM    bool // "at 3" alone reads as 15:00
}

// in places a bare hour into the given half of the day.
func (tm timeMention) in(h half) clock {
	c := tm.clock
	if !tm.bareHour {
		return c
	}
	switch h {
	case pmHalf:
		if c.hour < 12 {
			c.hour += 12
		}
	case eitherHalf:
		if tm.guessPM && c.hour >= 1 && c.hour <= 6 {
			c.hour += 12
		}
	}
	return c
}

type candidate struct {
	pos int
	at  time.Time
}

type spans [][2]int

func (s *spans) claim(start, end int) bool {
	for _, sp := range *s {
		if start < sp[1] && end > sp[0] {
			return false
		}
	}
	*s = append(*s, [2]int{start, end})
	return true
}

// gap is the number of characters between two spans, zero when they touch or overlap.
func gap(aStart, aEnd, bStart, bEnd int) int {
	switch {
	case aEnd <= bStart:
		return bStart - aEnd
	case bEnd <= aStart:
		return aStart - bEnd
	}
	return 0
}

// contextReach bounds how far a part-of-day word may sit from a bare hour and
// still decide its half of the day.
const contextReach = 10

var (
	weekdayNames = `monday|tuesday|wednesday|thursday|friday|saturday|sunday|tues|thurs`
	monthNames   = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`
	countWords   = `\d+|a|an|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve`

	dayAfterTomorrowRE = regexp.MustCompile(`\b(?:the\s+)?day\s+after\s+tomorrow\b`)
	relativeDayRE      = regexp.MustCompile(`\b(today|tonight|tomorrow|tmrw|yesterday)\b`)
	isoDateRE          = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDateRE        = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
	dottedDateRE       = regexp.MustCompile(`\b(\d{1,2})[.-](\d{1,2})[.-](\d{4}|\d{2})\b`)
	monthDayRE         = regexp.MustCompile(`\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	dayMonthRE         = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\b(?:,?\s+(\d{4})\b)?`)
	ordinalDayRE       = regexp.MustCompile(`\b(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)\b`)
	weekdayRE          = regexp.MustCompile(`\b(?:(this|next|last|coming)\s+)?(` + weekdayNames + `)\b`)
	nextWeekRE         = regexp.MustCompile(`\bnext\s+week\b`)
	inDaysRE           = regexp.MustCompile(`\bin\s+(` + countWords + `)\s+(days?|weeks?)\b`)
	daysAgoRE          = regexp.MustCompile(`\b(` + countWords + `)\s+(days?|weeks?)\s+ago\b`)
	inHoursRE          = regexp.MustCompile(`\bin\s+(` + countWords + `)\s+(hours?|hrs?|minutes?|mins?)\b`)
	hoursAgoRE         = regexp.MustCompile(`\b(` + countWords + `)\s+(hours?|hrs?|minutes?|mins?)\s+ago\b`)

	meridiemTimeRE = regexp.MustCompile(`\b(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm|a\.m|p\.m)\b\.?`)
	atHourRE       = regexp.MustCompile(`\b(?:at|@|around|by)\s+(\d{1,2})(?::(\d{2}))?\b`)
	clockRE        = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	namedTimeRE    = regexp.MustCompile(`\b(noon|midday|midnight)\b`)
	partOfDayRE    = regexp.MustCompile(`\b(morning|afternoon|evening|night)\b`)
)

var weekdayMap = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var monthMap = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var partOfDay = map[string]clock{
	"morning":   {9, 0},
	"afternoon": {14, 0},
	"evening":   {18, 0},
	"night":     {20, 0},
}

func addDays(n int) func(time.Time) time.Time {
	return func(t time.Time) time.Time { return t.AddDate(0, 0, n) }
}

func nextYear(t time.Time) time.Time { return t.AddDate(1, 0, 0) }

// nextMonthWithDay moves t to the next month that has t's day of month.
func nextMonthWithDay(t time.Time) time.Time {
	for i := 1; i <= 12; i++ {
		next := time.Date(t.Year(), t.Month()+time.Month(i), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
		if next.Day() == t.Day() {
			return next
		}
	}
	return t
}

// candidates lists every instant the text could mean, ordered by where the
// expression starts in the text. ok is false when the text holds a date-shaped
// token that is not a valid date.
func (r *Resolver) candidates(text string, now time.Time) ([]time.Time, bool) {
	var taken spans
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)

	out := r.instantMentions(text, now, &taken)

	dates, ok := r.dateMentions(text, now, today, &taken)
	if !ok {
		return nil, false
	}
	times := timeMentions(text, &taken)

	for _, d := range dates {
		at := r.atClock(d.day, clock{r.defaultHour, 0})
		if tm := nearestTime(d, times); tm != nil {
			c := tm.clock
			if !tm.vague {
				h := d.half
				if h == eitherHalf {
					h = contextHalf(times, [2]int{tm.start, tm.end}, [2]int{d.start, d.end})
				}
				c = tm.in(h)
			}
			at = r.atClock(d.day, c)
		} else if d.clock != nil {
			at = r.atClock(d.day, *d.clock)
		}
		if d.roll != nil && !at.After(now) {
			at = d.roll(at)
		}
		out = append(out, candidate{pos: d.start, at: at})
	}

	if len(dates) == 0 {
		explicit := false
		for _, tm := range times {
			explicit = explicit || !tm.vague
		}
		for _, tm := range times {
			if explicit && tm.vague {
				continue
			}
			at := r.atClock(today, tm.in(contextHalf(times, [2]int{tm.start, tm.end})))
			if !at.After(now) {
				at = at.AddDate(0, 0, 1)
			}
			out = append(out, candidate{pos: tm.start, at: at})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	result := make([]time.Time, 0, len(out))
	for _, c := range out {
		result = append(result, c.at)
	}
	return result, true
}

// contextHalf returns the half of the day named by the part-of-day word closest
// to any of the given spans, if one sits within contextReach.
func contextHalf(times []timeMention, around ...[2]int) half {
	best, bestDist := eitherHalf, contextReach+1
	for _, v := range times {
		if !v.vague {
			continue
		}
		for _, sp := range around {
			if d := gap(v.start, v.end, sp[0], sp[1]); d < bestDist {
				best, bestDist = halfOf(v.clock), d
			}
		}
	}
	return best
}

func (r *Resolver) atClock(day time.Time, c clock) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, r.loc)
}

func (r *Resolver) instantMentions(text string, now time.Time, taken *spans) []candidate {
	var out []candidate
	for _, loc := range inHoursRE.FindAllStringSubmatchIndex(text, -1) {
		n, ok := parseCount(text[loc[2]:loc[3]])
		if !ok || !taken.claim(loc[0], loc[1]) {
			continue
		}
		out = append(out, candidate{pos: loc[0], at: now.Add(time.Duration(n) * unitDuration(text[loc[4]:loc[5]]))})
	}
	for _, loc := range hoursAgoRE.FindAllStringSubmatchIndex(text, -1) {
		n, ok := parseCount(text[loc[2]:loc[3]])
		if !ok || !taken.claim(loc[0], loc[1]) {
			continue
		}
		out = append(out, candidate{pos: loc[0], at: now.Add(-time.Duration(n) * unitDuration(text[loc[4]:loc[5]]))})
	}
	return out
}

// dateMentions reports ok=false as soon as a date-shaped token fails to parse.
func (r *Resolver) dateMentions(text string, now, today time.Time, taken *spans) ([]dateMention, bool) {
	var out []dateMention
	nowClock := &clock{now.Hour(), now.Minute()}

	for _, loc := range dayAfterTomorrowRE.FindAllStringIndex(text, -1) {
		if taken.claim(loc[0], loc[1]) {
			out = append(out, dateMention{start: loc[0], end: loc[1], day: today.AddDate(0, 0, 2)})
		}
	}

	for _, loc := range relativeDayRE.FindAllStringSubmatchIndex(text, -1) {
		if !taken.claim(loc[0], loc[1]) {
			continue
		}
		m := dateMention{start: loc[0], end: loc[1], day: today}
		switch text[loc[2]:loc[3]] {
		case "tonight":
			m.clock = &clock{19, 0}
			m.half = pmHalf
		case "tomorrow", "tmrw":
			m.day = today.AddDate(0, 0, 1)
		case "yesterday":
			m.day = today.AddDate(0, 0, -1)
		}
		out = append(out, m)
	}

	for _, loc := range isoDateRE.FindAllStringSubmatchIndex(text, -1) {
		if !taken.claim(loc[0], loc[1]) {
			continue
		}
		y, _ := strconv.Atoi(text[loc[2]:loc[3]])
		mo, _ := strconv.Atoi(text[loc[4]:loc[5]])
		d, _ := strconv.Atoi(text[loc[6]:loc[7]])
		day, valid := r.validDate(y, time.Month(mo), d)
		if !valid {
			return nil, false
		}
		out = append(out, dateMention{start: loc[0], end: loc[1], day: day})
	}

	// numeric reads 6/10 or 10.06.2024 in the configured date order.
	numeric := func(re *regexp.Regexp) bool {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if !taken.claim(loc[0], loc[1]) {
				continue
			}
			first, _ := strconv.Atoi(text[loc[2]:loc[3]])
			second, _ := strconv.Atoi(text[loc[4]:loc[5]])
			mo, d := first, second
			if r.dateOrder == DayFirst {
				mo, d = second, first
			}
			m := dateMention{start: loc[0], end: loc[1]}
			year := today.Year()
			if loc[6] >= 0 {
				year, _ = strconv.Atoi(text[loc[6]:loc[7]])
				if loc[7]-loc[6] == 2 {
					year += 2000
				}
			}
			day, valid := r.validDate(year, time.Month(mo), d)
			if !valid {
				return false
			}
			if loc[6] < 0 {
				if day.Before(today) {
					day = day.AddDate(1, 0, 0)
				}
				m.roll = nextYear
			}
			m.day = day
			out = append(out, m)
		}
		return true
	}
	if !numeric(dottedDateRE) || !numeric(slashDateRE) {
		return nil, false
	}

	monthDay := func(re *regexp.Regexp, monthGroup, dayGroup int) bool {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if !taken.claim(loc[0], loc[1]) {
				continue
			}
			mon := monthMap[text[loc[2*monthGroup]:loc[2*monthGroup+1]]]
			d, _ := strconv.Atoi(text[loc[2*dayGroup]:loc[2*dayGroup+1]])
			year, explicitYear := today.Year(), false
			if loc[6] >= 0 {
				year, _ = strconv.Atoi(text[loc[6]:loc[7]])
				explicitYear = true
			}
			day, valid := r.validDate(year, mon, d)
			if !valid {
				return false
			}
			m := dateMention{start: loc[0], end: loc[1]}
			if !explicitYear {
				if day.Before(today) {
					day = day.AddDate(1, 0, 0)
				}
				m.roll = nextYear
			}
			m.day = day
			out = append(out, m)
		}
		return true
	}
	if !monthDay(monthDayRE, 1, 2) || !monthDay(dayMonthRE, 2, 1) {
		return nil, false
	}

	for _, loc := range ordinalDayRE.FindAllStringSubmatchIndex(text, -1) {
		if !taken.claim(loc[0], loc[1]) {
			continue
		}
		d, _ := strconv.Atoi(text[loc[2]:loc[3]])
		if d < 1 || d > 31 {
			return nil, false
		}
		var day time.Time
		for i := 0; i <= 12; i++ {
			day = time.Date(today.Year(), today.Month()+time.Month(i), d, 0, 0, 0, 0, r.loc)
			if day.Day() == d && !day.Before(today) {
				break
			}
		}
		out = append(out, dateMention{start: loc[0], end: loc[1], day: day, roll: nextMonthWithDay})
	}

	for _, loc := range nextWeekRE.FindAllStringIndex(text, -1) {
		if taken.claim(loc[0], loc[1]) {
			out = append(out, dateMention{start: loc[0], end: loc[1], day: today.AddDate(0, 0, 7)})
		}
	}

	for _, loc := range weekdayRE.FindAllStringSubmatchIndex(text, -1) {
		if !taken.claim(loc[0], loc[1]) {
			continue
		}
		target := weekdayMap[text[loc[4]:loc[5]]]
		modifier := ""
		if loc[2] >= 0 {
			modifier = text[loc[2]:loc[3]]
		}
		delta := (int(target) - int(today.Weekday()) + 7) % 7
		m := dateMention{start: loc[0], end: loc[1]}
		switch modifier {
		case "last":
			if delta == 0 {
				delta = 7
			}
			m.day = today.AddDate(0, 0, delta-7)
		case "next":
			if delta == 0 {
				delta = 7
			}
			m.day = today.AddDate(0, 0, delta)
		default:
			m.day = today.AddDate(0, 0, delta)
			m.roll = addDays(7)
		}
		out = append(out, m)
	}

	for _, loc := range inDaysRE.FindAllStringSubmatchIndex(text, -1) {
		n, valid := parseCount(text[loc[2]:loc[3]])
		if !valid || !taken.claim(loc[0], loc[1]) {
			continue
		}
		days := n * unitDays(text[loc[4]:loc[5]])
		out = append(out, dateMention{start: loc[0], end: loc[1], day: today.AddDate(0, 0, days), clock: nowClock})
	}

	for _, loc := range daysAgoRE.FindAllStringSubmatchIndex(text, -1) {
		n, valid := parseCount(text[loc[2]:loc[3]])
		if !valid || !taken.claim(loc[0], loc[1]) {
			continue
		}
		days := n * unitDays(text[loc[4]:loc[5]])
		out = append(out, dateMention{start: loc[0], end: loc[1], day: today.AddDate(0, 0, -days), clock: nowClock})
	}

	return out, true
}

func timeMentions(text string, taken *spans) []timeMention {
	var out []timeMention

	for _, loc := range meridiemTimeRE.FindAllStringSubmatchIndex(text, -1) {
		h, _ := strconv.Atoi(text[loc[2]:loc[3]])
		minute := 0
		if loc[4] >= 0 {
			minute, _ = strconv.Atoi(text[loc[4]:loc[5]])
		}
		if h < 1 || h > 12 || minute > 59 {
			continue
		}
		pm := strings.HasPrefix(text[loc[6]:loc[7]], "p")
		switch {
		case pm && h != 12:
			h += 12
		case !pm && h == 12:
			h = 0
		}
		if taken.claim(loc[0], loc[1]) {
			out = append(out, timeMention{start: loc[0], end: loc[1], clock: clock{h, minute}})
		}
	}

	for _, loc := range atHourRE.FindAllStringSubmatchIndex(text, -1) {
		h, _ := strconv.Atoi(text[loc[2]:loc[3]])
		minute := 0
		if loc[4] >= 0 {
			minute, _ = strconv.Atoi(text[loc[4]:loc[5]])
		}
		if h > 23 || minute > 59 {
			continue
		}
		if taken.claim(loc[0], loc[1]) {
			out = append(out, timeMention{
				start:    loc[0],
				end:      loc[1],
				clock:    clock{h, minute},
				bareHour: h >= 1 && h <= 12,
				guessPM:  true,
			})
		}
	}

	for _, loc := range clockRE.FindAllStringSubmatchIndex(text, -1) {
		h, _ := strconv.Atoi(text[loc[2]:loc[3]])
		minute, _ := strconv.Atoi(text[loc[4]:loc[5]])
		if h > 23 || minute > 59 {
			continue
		}
		if taken.claim(loc[0], loc[1]) {
			out = append(out, timeMention{start: loc[0], end: loc[1], clock: clock{h, minute}, bareHour: h >= 1 && h <= 12})
		}
	}

	for _, loc := range namedTimeRE.FindAllStringSubmatchIndex(text, -1) {
		c := clock{12, 0}
		if text[loc[2]:loc[3]] == "midnight" {
			c = clock{0, 0}
		}
		if taken.claim(loc[0], loc[1]) {
			out = append(out, timeMention{start: loc[0], end: loc[1], clock: c})
		}
	}

	for _, loc := range partOfDayRE.FindAllStringSubmatchIndex(text, -1) {
		if taken.claim(loc[0], loc[1]) {
			out = append(out, timeMention{start: loc[0], end: loc[1], clock: partOfDay[text[loc[2]:loc[3]]], vague: true})
		}
	}

	return out
}

// nearestTime pairs a date with the closest explicit time in the text, falling
// back to the closest part-of-day word.
func nearestTime(d dateMention, times []timeMention) *timeMention {
	var best *timeMention
	bestDist := -1
	bestVague := true
	for i := range times {
		tm := &times[i]
		dist := gap(tm.start, tm.end, d.start, d.end)
		better := best == nil ||
			(bestVague && !tm.vague) ||
			(bestVague == tm.vague && dist < bestDist)
		if better {
			best, bestDist, bestVague = tm, dist, tm.vague
		}
	}
	return best
}

func (r *Resolver) validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, r.loc)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

var countMap = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

func parseCount(s string) (int, bool) {
	if n, ok := countMap[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 10000 {
		return 0, false
	}
	return n, true
}

func unitDays(unit string) int {
	if strings.HasPrefix(unit, "week") {
		return 7
	}
	return 1
}

func unitDuration(unit string) time.Duration {
	if strings.HasPrefix(unit, "h") {
		return time.Hour
	}
	return time.Minute
}
