package video

import "testing"

func TestTime_Arithmetic(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Time
		wantSum Time
		wantSub Time
	}{
		{"same scale", Seconds(7), Seconds(3), Seconds(10), Seconds(4)},
		{"mixed scales", NewTime(1, 2), NewTime(1, 3), NewTime(5, 6), NewTime(1, 6)},
		{"ms and default", Milliseconds(1500), Seconds(1), Milliseconds(2500), Milliseconds(500)},
		{"zero value", Time{}, Seconds(2), Seconds(2), Seconds(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Add(tt.b); !got.Equal(tt.wantSum) {
				t.Errorf("Add() = %v, want %v", got, tt.wantSum)
			}
			if got := tt.a.Sub(tt.b); !got.Equal(tt.wantSub) {
				t.Errorf("Sub() = %v, want %v", got, tt.wantSub)
			}
		})
	}
}

func TestTime_AddIsExact(t *testing.T) {
	// ten tenths must be exactly one second
	sum := Time{}
	for i := 0; i < 10; i++ {
		sum = sum.Add(NewTime(1, 10))
	}
	if !sum.Equal(Seconds(1)) {
		t.Errorf("sum of ten 0.1s = %v (%d/%d), want exactly 1s", sum, sum.Value, sum.Scale)
	}
}

func TestTime_Compare(t *testing.T) {
	if !NewTime(1, 3).Before(NewTime(1, 2)) {
		t.Error("expected 1/3 to be before 1/2")
	}
	if !Seconds(2).After(Milliseconds(1999)) {
		t.Error("expected 2s to be after 1.999s")
	}
	if !NewTime(600, 600).Equal(NewTime(1000, 1000)) {
		t.Error("expected equal instants on different scales to be equal")
	}
	if Seconds(1).Before(Seconds(1)) {
		t.Error("expected time to not be before itself")
	}
	if !MinTime(Seconds(3), Seconds(1)).Equal(Seconds(1)) {
		t.Error("MinTime picked the wrong value")
	}
	if !MaxTime(Seconds(3), Seconds(1)).Equal(Seconds(3)) {
		t.Error("MaxTime picked the wrong value")
	}
}

func TestTime_CompareLargeFineScales(t *testing.T) {
	duration, err := ParseDecimalSeconds("9000.500001")
	if err != nil {
		t.Fatalf("ParseDecimalSeconds() unexpected error: %v", err)
	}
	end, err := ParseTimestamp("9300.000000001")
	if err != nil {
		t.Fatalf("ParseTimestamp() unexpected error: %v", err)
	}

	if !end.After(duration) {
		t.Errorf("expected %v to be after %v", end, duration)
	}
	if duration.Compare(end) != -1 {
		t.Errorf("Compare() = %d, want -1", duration.Compare(end))
	}
	if got := duration.Sub(end); !got.IsNegative() {
		t.Errorf("Sub() = %v, want negative", got)
	}
}

func TestTime_AddWithoutOverflow(t *testing.T) {
	a := NewTime(9_000_000_000_000_000_000, 1000)
	sum := a.Add(NewTime(1, 3))
	if !sum.Equal(NewTime(27_000_000_000_000_001, 3)) {
		t.Errorf("Add() = %d/%d, want 27000000000000001/3", sum.Value, sum.Scale)
	}
	if !sum.After(a) {
		t.Errorf("expected %v to be after %v", sum, a)
	}
	if diff := sum.Sub(a); !diff.Equal(NewTime(1, 3)) {
		t.Errorf("Sub() = %d/%d, want 1/3", diff.Value, diff.Scale)
	}
}

func TestTime_Formatting(t *testing.T) {
	tests := []struct {
		time     Time
		str      string
		timecode string
	}{
		{Seconds(0), "0.000", "00:00:00.000"},
		{Milliseconds(3723456), "3723.456", "01:02:03.456"},
		{NewTime(1, 3), "0.333", "00:00:00.333"},
		{Seconds(-5), "-5.000", "-00:00:05.000"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.time.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.time.Timecode(); got != tt.timecode {
				t.Errorf("Timecode() = %q, want %q", got, tt.timecode)
			}
		})
	}
}

func TestTime_Rescale(t *testing.T) {
	got := Milliseconds(1500).Rescale(DefaultTimescale)
	if got.Value != 900 || got.Scale != DefaultTimescale {
		t.Errorf("Rescale() = %d/%d, want 900/600", got.Value, got.Scale)
	}
	if !FromSeconds(2.5).Equal(Milliseconds(2500)) {
		t.Errorf("FromSeconds(2.5) = %v", FromSeconds(2.5))
	}
}
