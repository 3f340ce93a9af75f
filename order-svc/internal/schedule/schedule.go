// Package schedule decides which pickup dates and time slots a customer may
// choose. Everything here is a pure function of its inputs; callers pass
// "now" explicitly.
package schedule

import (
	"fmt"
	"time"

	"bakery-preorder/order-svc/internal/domain"
)

const (
	DateLayout         = "2006-01-02"
	SlotLayout         = "3:04 PM"
	DefaultHorizonDays = 14
	slotStep           = 30 * time.Minute
)

type rule struct {
	weekdays []time.Weekday
	open     time.Duration
	close    time.Duration
}

var rules = map[domain.FulfillmentMode]rule{
	domain.InStock: {
		weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		open:     12 * time.Hour,
		close:    18 * time.Hour,
	},
	domain.MadeToOrder: {
		weekdays: []time.Weekday{time.Thursday, time.Friday, time.Saturday},
		open:     9 * time.Hour,
		close:    18 * time.Hour,
	},
}

func (r rule) allows(day time.Weekday) bool {
	for _, w := range r.weekdays {
		if w == day {
			return true
		}
	}
	return false
}

// IsSelectable reports whether date is a valid pickup day for mode. The
// comparison uses calendar days in now's location; date contributes only
// its year, month and day.
func IsSelectable(date time.Time, mode domain.FulfillmentMode, now time.Time) bool {
	r, ok := rules[mode]
	if !ok {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(midnight(now).AddDate(0, 0, 1)) {
		return false
	}
	return r.allows(day.Weekday())
}

// Slots lists the half-hour pickup slots for mode, first and last inclusive.
func Slots(mode domain.FulfillmentMode) []string {
	r, ok := rules[mode]
	if !ok {
		return nil
	}
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	var slots []string
	for d := r.open; d <= r.close; d += slotStep {
		slots = append(slots, base.Add(d).Format(SlotLayout))
	}
	return slots
}

func IsValidSlot(mode domain.FulfillmentMode, slot string) bool {
	for _, s := range Slots(mode) {
		if s == slot {
			return true
		}
	}
	return false
}

// AvailableDates lists selectable dates from tomorrow through today+days.
func AvailableDates(mode domain.FulfillmentMode, now time.Time, days int) []time.Time {
	if days <= 0 {
		days = DefaultHorizonDays
	}
	today := midnight(now)
	var dates []time.Time
	for i := 1; i <= days; i++ {
		d := today.AddDate(0, 0, i)
		if IsSelectable(d, mode, now) {
			dates = append(dates, d)
		}
	}
	return dates
}

// Mix records which fulfillment modes are present in a cart.
type Mix struct {
	InStock     bool
	MadeToOrder bool
}

type Window struct {
	Mode     domain.FulfillmentMode `json:"mode"`
	Weekdays []string               `json:"weekdays"`
	Dates    []string               `json:"dates"`
	Times    []string               `json:"times"`
	Earliest string                 `json:"earliest,omitempty"`
}

// Windows describes the pickup fields a cart needs. Modes absent from the
// mix get no window at all.
func Windows(mix Mix, now time.Time, horizon int) []Window {
	var out []Window
	if mix.InStock {
		out = append(out, window(domain.InStock, now, horizon))
	}
	if mix.MadeToOrder {
		out = append(out, window(domain.MadeToOrder, now, horizon))
	}
	return out
}

func window(mode domain.FulfillmentMode, now time.Time, horizon int) Window {
	w := Window{Mode: mode, Times: Slots(mode), Dates: []string{}}
	for _, day := range rules[mode].weekdays {
		w.Weekdays = append(w.Weekdays, day.String())
	}
	for _, d := range AvailableDates(mode, now, horizon) {
		w.Dates = append(w.Dates, d.Format(DateLayout))
	}
	if len(w.Dates) > 0 {
		w.Earliest = w.Dates[0]
	}
	return w
}

// Deadline is the weekly cutoff for made-to-order Saturday pickups.
type Deadline struct {
	ClosesAt time.Time `json:"closes_at"`
	Pickup   string    `json:"pickup"`
	Text     string    `json:"text"`
}

// NextOrderDeadline returns the Wednesday 6pm cutoff for the nearest
// Saturday whose cutoff has not yet passed. It is informational and does not
// affect IsSelectable.
func NextOrderDeadline(now time.Time) Deadline {
	today := midnight(now)
	offset := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	saturday := today.AddDate(0, 0, offset)
	for {
		closes := time.Date(saturday.Year(), saturday.Month(), saturday.Day()-3, 18, 0, 0, 0, saturday.Location())
		if closes.After(now) {
			return Deadline{
				ClosesAt: closes,
				Pickup:   saturday.Format(DateLayout),
				Text: fmt.Sprintf("Orders close %s 6pm for Saturday %s pickup",
					closes.Format("Monday, Jan 2"), saturday.Format("Jan 2")),
			}
		}
		saturday = saturday.AddDate(0, 0, 7)
	}
}

func ParseDate(value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pickup date %q: %w", value, err)
	}
	return d, nil
}

// PickupMoment combines a date and a slot label into one instant in loc.
func PickupMoment(date, slot string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(SlotLayout, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pickup time %q: %w", slot, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
