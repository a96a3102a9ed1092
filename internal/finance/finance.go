// Package finance holds the pure capital-budgeting math used to value
// projects: net present value, a simplified yield proxy, payback period
// and profitability index. All functions are deterministic and carry no
// game state.
package finance

import "math"

// DefaultDiscountRate is the rate applied wherever a caller does not
// supply its own.
const DefaultDiscountRate = 0.10

// PresentValue discounts `life` years of a constant annual cash flow.
func PresentValue(life int, cashFlow, rate float64) float64 {
	pv := 0.0
	for year := 1; year <= life; year++ {
		pv += cashFlow / math.Pow(1+rate, float64(year))
	}
	return pv
}

// NPV is the present value of the flows minus the upfront cost.
func NPV(cost float64, life int, cashFlow, rate float64) float64 {
	return -cost + PresentValue(life, cashFlow, rate)
}

// IRRApprox returns (cashFlow*life - cost) / (cost*life), a cheap yield
// proxy. It is not a root-found internal rate of return; callers that
// display it should label it as an approximation.
func IRRApprox(cost float64, life int, cashFlow float64) float64 {
	return (cashFlow*float64(life) - cost) / (cost * float64(life))
}

// PaybackPeriod is the number of years of cash flow needed to recoup cost.
func PaybackPeriod(cost, cashFlow float64) float64 {
	return cost / cashFlow
}

// ProfitabilityIndex is the present value of the flows per unit of cost.
func ProfitabilityIndex(cost float64, life int, cashFlow, rate float64) float64 {
	return PresentValue(life, cashFlow, rate) / cost
}

// RemainingLifeValue discounts only the years of life left on an owned
// project. Cost is sunk at purchase time and is never subtracted here.
// Remaining life at or below zero contributes exactly zero.
func RemainingLifeValue(remainingLife int, cashFlow, rate float64) float64 {
	if remainingLife <= 0 {
		return 0
	}
	return PresentValue(remainingLife, cashFlow, rate)
}
