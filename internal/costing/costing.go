// Package costing holds the pure allocation-cost arithmetic: utilization
// normalization, cost and duration computation, and monthly/daily/hourly
// rate conversion. No I/O lives here.
package costing

import (
	"math"

	"github.com/shopspring/decimal"
)

// WorkingHours is the fixed working-time configuration used to convert
// between monthly, daily, and hourly rates and to derive durations.
type WorkingHours struct {
	HoursPerDay  float64
	DaysPerMonth float64
}

// DefaultWorkingHours is an 8-hour day, 22 working days per month.
var DefaultWorkingHours = WorkingHours{HoursPerDay: 8, DaysPerMonth: 22}

// NormalizeUtilization maps raw utilization input to [0,1]. Values above 1
// are interpreted as percentages and divided by 100; negative values clamp
// to zero.
func NormalizeUtilization(raw float64) float64 {
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		raw = raw / 100
	}
	if raw > 1 {
		return 1
	}
	return raw
}

// AllocationCost computes hourly × hours × utilization rounded to 2 decimal
// places. utilization must already be normalized.
func AllocationCost(hourly decimal.Decimal, hours, utilization float64) decimal.Decimal {
	return hourly.
		Mul(decimal.NewFromFloat(hours)).
		Mul(decimal.NewFromFloat(utilization)).
		Round(2)
}

// DurationDays converts hours worked into days at the given working-hours
// configuration, rounded to 2 decimal places. Utilization does not shorten
// or stretch duration.
func DurationDays(hours float64, wh WorkingHours) float64 {
	if wh.HoursPerDay <= 0 {
		return 0
	}
	return round2(hours / wh.HoursPerDay)
}

// DailyFromMonthly converts a monthly cost to a daily cost.
func DailyFromMonthly(monthly decimal.Decimal, wh WorkingHours) decimal.Decimal {
	if wh.DaysPerMonth <= 0 {
		return decimal.Zero
	}
	return monthly.Div(decimal.NewFromFloat(wh.DaysPerMonth)).Round(2)
}

// HourlyFromDaily converts a daily cost to an hourly cost.
func HourlyFromDaily(daily decimal.Decimal, wh WorkingHours) decimal.Decimal {
	if wh.HoursPerDay <= 0 {
		return decimal.Zero
	}
	return daily.Div(decimal.NewFromFloat(wh.HoursPerDay)).Round(2)
}

// HourlyFromMonthly converts a monthly cost straight to an hourly cost.
func HourlyFromMonthly(monthly decimal.Decimal, wh WorkingHours) decimal.Decimal {
	return HourlyFromDaily(DailyFromMonthly(monthly, wh), wh)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
