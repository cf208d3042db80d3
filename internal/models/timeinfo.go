package models

import "time"

// TimeType discriminates the TimeInfo union.
type TimeType string

// Time placement kinds.
const (
	TimeAbsolute TimeType = "absolute"
	TimeRelative TimeType = "relative"
	TimeStory    TimeType = "story"
)

// TimeUnit is the unit of a relative time offset.
type TimeUnit string

// Relative time units.
const (
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
	UnitWeeks   TimeUnit = "weeks"
	UnitMonths  TimeUnit = "months"
	UnitYears   TimeUnit = "years"
)

// AbsoluteDateLayout is the calendar-date format used by absolute time info.
const AbsoluteDateLayout = "2006-01-02"

// TimeInfo places a card in story time. It is a tagged union: Type selects
// exactly one of Absolute, Relative or Story; the other two are nil.
type TimeInfo struct {
	Type     TimeType      `json:"type"`
	Absolute *AbsoluteTime `json:"absolute,omitempty"`
	Relative *RelativeTime `json:"relative,omitempty"`
	Story    *StoryTime    `json:"story,omitempty"`

	IsFlashback     bool   `json:"isFlashback,omitempty"`
	IsConcurrent    bool   `json:"isConcurrent,omitempty"`
	ConcurrentGroup string `json:"concurrentGroup,omitempty"`
}

// AbsoluteTime is a calendar date (YYYY-MM-DD) with an optional
// time of day (HH:MM).
type AbsoluteTime struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// RelativeTime is a signed offset from another card (or from "now" in the
// story when Reference is empty).
type RelativeTime struct {
	Value     int      `json:"value"`
	Unit      TimeUnit `json:"unit"`
	Reference string   `json:"reference,omitempty"`
}

// StoryTime is a free-form in-world time ("Chapter" "12", "Day" "3").
type StoryTime struct {
	Unit  string `json:"unit"`
	Value string `json:"value"`
}

// AbsoluteDate returns the parsed calendar date when the time info is
// absolute and carries a valid date.
func (t TimeInfo) AbsoluteDate() (time.Time, bool) {
	if t.Type != TimeAbsolute || t.Absolute == nil || t.Absolute.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(AbsoluteDateLayout, t.Absolute.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Clone returns a deep copy of the time info.
func (t TimeInfo) Clone() TimeInfo {
	out := t
	if t.Absolute != nil {
		a := *t.Absolute
		out.Absolute = &a
	}
	if t.Relative != nil {
		r := *t.Relative
		out.Relative = &r
	}
	if t.Story != nil {
		s := *t.Story
		out.Story = &s
	}
	return out
}
