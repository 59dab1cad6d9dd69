package calculator

import "math"

const (
	DaysPerMonth = 30
	DaysPerYear  = 365
)

// UptimeBonus rewards reliable devices: >= 99% earns 1.2, >= 95% 1.1,
// >= 90% 1.0, anything lower 0.8.
func UptimeBonus(uptimePct float64) float64 {
	switch {
	case uptimePct >= 99:
		return 1.2
	case uptimePct >= 95:
		return 1.1
	case uptimePct >= 90:
		return 1.0
	default:
		return 0.8
	}
}

// DailyEarnings is devices × kWh × rate × multiplier × uptimeBonus.
func DailyEarnings(devices int, kwhPerDevice, rate, multiplier, uptimeBonus float64) float64 {
	return float64(devices) * kwhPerDevice * rate * multiplier * uptimeBonus
}

// Reward prices a single energy report from one device.
func Reward(kwh, rate, multiplier, uptimeBonus float64) float64 {
	return DailyEarnings(1, kwh, rate, multiplier, uptimeBonus)
}

// Roi returns net daily earnings, days until the investment is paid back
// (-1 if never) and the annual return on investment in percent.
func Roi(investment, dailyEarnings, dailyCost float64) (netDaily, paybackDays, annualPct float64) {
	netDaily = dailyEarnings - dailyCost
	paybackDays = -1
	if netDaily > 0 {
		paybackDays = investment / netDaily
	}
	if investment > 0 {
		annualPct = netDaily * DaysPerYear / investment * 100
	}
	return netDaily, paybackDays, annualPct
}

// CompoundYield grows principal at apyPct compounded n times per year for
// days, and returns the final value and the effective annual yield in percent.
func CompoundYield(principal, apyPct float64, days, n int) (final, effectivePct float64) {
	periodic := apyPct / 100 / float64(n)
	final = principal * math.Pow(1+periodic, float64(n)*float64(days)/DaysPerYear)
	effectivePct = (math.Pow(1+periodic, float64(n)) - 1) * 100
	return final, effectivePct
}
