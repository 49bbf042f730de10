package video

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// timestampRegex matches HH:MM:SS with an optional fractional part
var timestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(\.\d{1,6})?$`)

// shortTimestampRegex matches MM:SS with an optional fractional part
var shortTimestampRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(\.\d{1,6})?$`)

// secondsRegex matches a plain decimal number of seconds
var secondsRegex = regexp.MustCompile(`^\d+(\.\d{1,9})?$`)

// ParseTimestamp parses a timestamp in HH:MM:SS[.fff], MM:SS[.fff] or
// plain seconds format into an exact Time
func ParseTimestamp(s string) (Time, error) {
	s = strings.TrimSpace(s)

	if matches := timestampRegex.FindStringSubmatch(s); matches != nil {
		hours, _ := strconv.Atoi(matches[1])
		minutes, _ := strconv.Atoi(matches[2])
		seconds, _ := strconv.Atoi(matches[3])

		if minutes > 59 {
			return Time{}, fmt.Errorf("invalid timestamp %q: minutes must be 0-59", s)
		}
		if seconds > 59 {
			return Time{}, fmt.Errorf("invalid timestamp %q: seconds must be 0-59", s)
		}

		whole := int64(hours*3600 + minutes*60 + seconds)
		return withFraction(whole, matches[4])
	}

	if matches := shortTimestampRegex.FindStringSubmatch(s); matches != nil {
		minutes, _ := strconv.Atoi(matches[1])
		seconds, _ := strconv.Atoi(matches[2])

		if seconds > 59 {
			return Time{}, fmt.Errorf("invalid timestamp %q: seconds must be 0-59", s)
		}

		return withFraction(int64(minutes*60+seconds), matches[3])
	}

	if secondsRegex.MatchString(s) {
		return ParseDecimalSeconds(s)
	}

	return Time{}, fmt.Errorf("invalid timestamp format %q: expected HH:MM:SS, MM:SS or seconds", s)
}

// ParseDecimalSeconds parses a decimal seconds string such as "10.010000"
// without going through a float, so "0.1" is exactly 1/10 s
func ParseDecimalSeconds(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, fmt.Errorf("empty seconds value")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Time{}, fmt.Errorf("invalid seconds value %q: %w", s, err)
	}

	fracPart = strings.TrimRight(fracPart, "0")
	t, err := withFraction(whole, "."+fracPart)
	if err != nil {
		return Time{}, err
	}
	if neg {
		t.Value = -t.Value
	}
	return t, nil
}

// withFraction combines whole seconds with a ".ddd" fraction (may be "" or ".")
func withFraction(whole int64, frac string) (Time, error) {
	frac = strings.TrimPrefix(frac, ".")
	if frac == "" {
		if whole > math.MaxInt64/int64(DefaultTimescale) {
			return Time{}, fmt.Errorf("timestamp of %d seconds is out of range", whole)
		}
		return Seconds(whole), nil
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}

	n, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Time{}, fmt.Errorf("invalid fractional seconds %q: %w", frac, err)
	}

	scale := int64(1)
	for range frac {
		scale *= 10
	}
	if whole > (math.MaxInt64-n)/scale {
		return Time{}, fmt.Errorf("timestamp of %d.%s seconds is out of range", whole, frac)
	}
	return Time{Value: whole*scale + n, Scale: int32(scale)}, nil
}
