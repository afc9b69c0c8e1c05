package models

import (
	"strings"
	"time"
)

type InstallHopeType string

const (
	InstallHopeSingle   InstallHopeType = "single"
	InstallHopeRange    InstallHopeType = "range"
	InstallHopeMultiple InstallHopeType = "multiple"
)

func (t InstallHopeType) Valid() bool {
	switch t {
	case InstallHopeSingle, InstallHopeRange, InstallHopeMultiple:
		return true
	}
	return false
}

type DateRange struct {
	Start time.Time `json:"start" firestore:"start"`
	End   time.Time `json:"end" firestore:"end"`
}

// CustomerSnapshot is the customer half of the intake form. Rows and saved
// history records hold their own copies, see Clone.
type CustomerSnapshot struct {
	Date     *time.Time `json:"date" firestore:"date"`
	Salon    string     `json:"salon" firestore:"salon"`
	Customer string     `json:"customer" firestore:"customer"`
	Phone    string     `json:"phone" firestore:"phone"`
	Address  string     `json:"address" firestore:"address"`

	InteriorStart *time.Time `json:"interiorStart" firestore:"interiorStart"`
	InteriorEnd   *time.Time `json:"interiorEnd" firestore:"interiorEnd"`
	CleaningEnd   *time.Time `json:"cleaningEnd" firestore:"cleaningEnd"`
	OpenHope      *time.Time `json:"openHope" firestore:"openHope"`

	InstallHopeType     InstallHopeType `json:"installHopeType" firestore:"installHopeType"`
	InstallHope         *time.Time      `json:"installHope" firestore:"installHope"`
	InstallHopeRange    *DateRange      `json:"installHopeRange" firestore:"installHopeRange"`
	InstallHopeMultiple []time.Time     `json:"installHopeMultiple" firestore:"installHopeMultiple"`
}

func NewCustomerSnapshot() CustomerSnapshot {
	return CustomerSnapshot{InstallHopeType: InstallHopeSingle}
}

// Clone returns a copy that shares no pointers or slices with c.
func (c CustomerSnapshot) Clone() CustomerSnapshot {
	out := c
	out.Date = cloneTime(c.Date)
	out.InteriorStart = cloneTime(c.InteriorStart)
	out.InteriorEnd = cloneTime(c.InteriorEnd)
	out.CleaningEnd = cloneTime(c.CleaningEnd)
	out.OpenHope = cloneTime(c.OpenHope)
	out.InstallHope = cloneTime(c.InstallHope)
	if c.InstallHopeRange != nil {
		r := *c.InstallHopeRange
		out.InstallHopeRange = &r
	}
	if c.InstallHopeMultiple != nil {
		out.InstallHopeMultiple = append([]time.Time(nil), c.InstallHopeMultiple...)
	}
	return out
}

// InstallHopeSummary renders the active install-hope representation, "-" when
// it is empty.
func (c CustomerSnapshot) InstallHopeSummary() string {
	const layout = "2006-01-02"
	switch c.InstallHopeType {
	case InstallHopeSingle:
		if c.InstallHope != nil {
			return c.InstallHope.Format(layout)
		}
	case InstallHopeRange:
		if c.InstallHopeRange != nil {
			return c.InstallHopeRange.Start.Format(layout) + " ~ " + c.InstallHopeRange.End.Format(layout)
		}
	case InstallHopeMultiple:
		if len(c.InstallHopeMultiple) > 0 {
			days := make([]string, len(c.InstallHopeMultiple))
			for i, d := range c.InstallHopeMultiple {
				days[i] = d.Format(layout)
			}
			return strings.Join(days, ", ")
		}
	}
	return "-"
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
