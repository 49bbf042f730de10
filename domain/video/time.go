package video

import (
	"fmt"
	"math"
	"math/big"
)

// DefaultTimescale is the timescale used for times built from whole or
// fractional seconds. 600 divides evenly by the common frame rates.
const DefaultTimescale int32 = 600

// Time is an exact rational media time: Value/Scale seconds.
// The zero value is a valid zero time.
type Time struct {
	Value int64
	Scale int32
}

// NewTime creates a Time of value/scale seconds
func NewTime(value int64, scale int32) Time {
	if scale <= 0 {
		scale = 1
	}
	return Time{Value: value, Scale: scale}
}

// Seconds creates a Time from a whole number of seconds. Use it for
// literal and already bounded values; parsed input goes through
// ParseTimestamp, which rejects values that do not fit.
func Seconds(s int64) Time {
	return Time{Value: s * int64(DefaultTimescale), Scale: DefaultTimescale}
}

// Milliseconds creates a Time from a number of milliseconds
func Milliseconds(ms int64) Time {
	return Time{Value: ms, Scale: 1000}
}

// FromSeconds converts a float seconds value at the default timescale,
// rounding to the nearest unit
func FromSeconds(s float64) Time {
	return Time{Value: int64(math.Round(s * float64(DefaultTimescale))), Scale: DefaultTimescale}
}

func (t Time) scale() int64 {
	if t.Scale <= 0 {
		return 1
	}
	return int64(t.Scale)
}

// Seconds returns the float approximation of t
func (t Time) Seconds() float64 {
	return float64(t.Value) / float64(t.scale())
}

// IsZero returns true if t is zero seconds
func (t Time) IsZero() bool {
	return t.Value == 0
}

// IsNegative returns true if t is before zero
func (t Time) IsNegative() bool {
	return t.Value < 0
}

// Add returns t+other, expressed on the common timescale of both operands
func (t Time) Add(other Time) Time {
	return combine(t, other, false)
}

// Sub returns t-other, expressed on the common timescale of both operands
func (t Time) Sub(other Time) Time {
	return combine(t, other, true)
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to
// or after other
func (t Time) Compare(other Time) int {
	st, so := t.scale(), other.scale()
	if mulFits(t.Value, so) && mulFits(other.Value, st) {
		l, r := t.Value*so, other.Value*st
		switch {
		case l < r:
			return -1
		case l > r:
			return 1
		default:
			return 0
		}
	}
	return t.rat().Cmp(other.rat())
}

// Equal reports whether t and other denote the same instant, regardless of timescale
func (t Time) Equal(other Time) bool {
	return t.Compare(other) == 0
}

// Before returns true if t is before other
func (t Time) Before(other Time) bool {
	return t.Compare(other) < 0
}

// After returns true if t is after other
func (t Time) After(other Time) bool {
	return t.Compare(other) > 0
}

// Rescale converts t to the given timescale, rounding half away from zero
func (t Time) Rescale(scale int32) Time {
	if scale <= 0 {
		scale = 1
	}
	if int64(scale) == t.scale() {
		return Time{Value: t.Value, Scale: scale}
	}
	v, ok := roundRat(t.rat(), int64(scale))
	if !ok {
		panic(fmt.Sprintf("video: %s s does not fit timescale %d", t, scale))
	}
	return Time{Value: v, Scale: scale}
}

// String formats t as seconds with millisecond precision, e.g. "12.345"
func (t Time) String() string {
	return fmt.Sprintf("%.3f", t.Seconds())
}

// Timecode formats t as HH:MM:SS.mmm
func (t Time) Timecode() string {
	ms := t.Rescale(1000).Value
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, s, ms%1000)
}

// MinTime returns the earlier of a and b
func MinTime(a, b Time) Time {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxTime returns the later of a and b
func MaxTime(a, b Time) Time {
	if b.After(a) {
		return b
	}
	return a
}

// combine adds or subtracts b on the least common timescale, falling back
// to exact rational arithmetic when that would overflow
func combine(a, b Time, negate bool) Time {
	sa, sb := a.scale(), b.scale()
	l := sa / gcd(sa, sb) * sb
	if l <= math.MaxInt32 && mulFits(a.Value, l/sa) && mulFits(b.Value, l/sb) {
		x, y := a.Value*(l/sa), b.Value*(l/sb)
		if !negate || y != math.MinInt64 {
			if negate {
				y = -y
			}
			if sum, ok := addFits(x, y); ok {
				return Time{Value: sum, Scale: int32(l)}
			}
		}
	}

	r := a.rat()
	if negate {
		r.Sub(r, b.rat())
	} else {
		r.Add(r, b.rat())
	}
	return fromRat(r, max(sa, sb))
}

// fromRat picks the exact reduced fraction when it fits, otherwise the
// finest of fine, DefaultTimescale and 1 that holds the rounded value
func fromRat(r *big.Rat, fine int64) Time {
	if r.Num().IsInt64() && r.Denom().IsInt64() && r.Denom().Int64() <= math.MaxInt32 {
		return Time{Value: r.Num().Int64(), Scale: int32(r.Denom().Int64())}
	}
	for _, scale := range []int64{min(fine, math.MaxInt32), int64(DefaultTimescale), 1} {
		if v, ok := roundRat(r, scale); ok {
			return Time{Value: v, Scale: int32(scale)}
		}
	}
	panic(fmt.Sprintf("video: time %s s is out of range", r.FloatString(3)))
}

// roundRat returns r*scale rounded half away from zero, and whether it fits an int64
func roundRat(r *big.Rat, scale int64) (int64, bool) {
	n := new(big.Int).Mul(r.Num(), big.NewInt(scale))
	d := r.Denom()
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	if m.Abs(m).Lsh(m, 1).Cmp(d) >= 0 {
		if n.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	if !q.IsInt64() {
		return 0, false
	}
	return q.Int64(), true
}

func (t Time) rat() *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(t.Value), big.NewInt(t.scale()))
}

// mulFits reports whether v*m fits an int64; m must be positive
func mulFits(v, m int64) bool {
	return v <= math.MaxInt64/m && v >= math.MinInt64/m
}

func addFits(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
