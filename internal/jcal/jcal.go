// Package jcal derives the localized solar-hijri date strings stored next to
// canonical dates on every ledger entity.
package jcal

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Conversion is anchored to Kabul time so a given instant always maps to the
// same localized day regardless of server zone.
var kabul = time.FixedZone("AFT", 4*3600+1800)

// YearMonth returns the solar-hijri "YYYY/M" string for t. The month is
// 1-indexed and unpadded. Used for display and monthly grouping only;
// ordering always uses the canonical date.
func YearMonth(t time.Time) string {
	pt := ptime.New(t.In(kabul))
	return fmt.Sprintf("%d/%d", pt.Year(), int(pt.Month()))
}

// Date returns the full solar-hijri "YYYY/M/D" string for t.
func Date(t time.Time) string {
	pt := ptime.New(t.In(kabul))
	return fmt.Sprintf("%d/%d/%d", pt.Year(), int(pt.Month()), pt.Day())
}
