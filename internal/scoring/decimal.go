package scoring

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// Arithmetic runs in decimal so that 0.15 rounds to 0.2 and sums of
// one-decimal scores do not drift.
var decimalCtx = newDecimalContext()

func newDecimalContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return roundDecimal(toDecimal(v), places)
}

// RoundedSum adds values and rounds the result once to one decimal place.
// Non-finite values are skipped.
func RoundedSum(values []float64) float64 {
	sum := new(apd.Decimal)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum = addDecimals(sum, toDecimal(v))
	}
	return roundDecimal(sum, 1)
}

// LegacyScore is the older scoring model: difficulty * 1000 / seconds, two decimals.
func LegacyScore(difficulty int, completion float64) float64 {
	if math.IsInf(completion, 1) {
		return 0
	}
	num := toDecimal(float64(difficulty) * 1000)
	den := toDecimal(EffectiveSeconds(completion))
	q := new(apd.Decimal)
	if _, err := decimalCtx.Quo(q, num, den); err != nil {
		return 0
	}
	return roundDecimal(q, 2)
}

func toDecimal(v float64) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(v); err != nil {
		return new(apd.Decimal)
	}
	return d
}

func mulDecimal(a, b float64) *apd.Decimal {
	out := new(apd.Decimal)
	if _, err := decimalCtx.Mul(out, toDecimal(a), toDecimal(b)); err != nil {
		return new(apd.Decimal)
	}
	return out
}

func addDecimals(a, b *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal)
	if _, err := decimalCtx.Add(out, a, b); err != nil {
		return a
	}
	return out
}

func roundDecimal(d *apd.Decimal, places int32) float64 {
	out := new(apd.Decimal)
	if _, err := decimalCtx.Quantize(out, d, -places); err != nil {
		f, _ := d.Float64()
		return f
	}
	f, err := out.Float64()
	if err != nil {
		return 0
	}
	return f
}
