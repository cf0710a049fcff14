package slider

import "testing"

func TestDomain(t *testing.T) {
	tests := []struct {
		name      string
		historyOn bool
		startYear int
		wantMin   int
		wantMax   int
	}{
		{"history off", false, 2022, 2022, 2070},
		{"history on", true, 2022, 1950, 2070},
		{"start after end collapses", false, 2080, 2080, 2080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := Domain(tt.historyOn, tt.startYear)
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("Domain() = [%d, %d], want [%d, %d]", min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestResolve_MarksWithinDomain(t *testing.T) {
	for _, historyOn := range []bool{false, true} {
		r := Resolve(Input{HistoryOn: historyOn, StartYear: 2022})
		if r.Min > r.Max {
			t.Errorf("historyOn=%v: min %d > max %d", historyOn, r.Min, r.Max)
		}
		if len(r.Marks) == 0 {
			t.Errorf("historyOn=%v: no marks", historyOn)
		}
		for _, m := range r.Marks {
			if m.Value < r.Min || m.Value > r.Max {
				t.Errorf("mark %d outside [%d, %d]", m.Value, r.Min, r.Max)
			}
			if m.Value%10 != 0 {
				t.Errorf("mark %d not divisible by 10", m.Value)
			}
		}
	}

	r := Resolve(Input{StartYear: 2022})
	if r.Marks[0].Value != 2030 || r.Marks[0].Label != "2030" {
		t.Errorf("first mark = %+v, want 2030", r.Marks[0])
	}
	if got := len(r.Marks); got != 5 {
		t.Errorf("marks = %d, want 5 (2030..2070)", got)
	}
}

func TestResolve_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{"undefined year goes to min", Input{StartYear: 2022}, 2022},
		{"undefined year with history", Input{HistoryOn: true, StartYear: 2022}, 1950},
		{"historical year clamped when history off", Input{Year: 1960, HasYear: true, StartYear: 2022}, 2022},
		{"historical year kept when history on", Input{HistoryOn: true, Year: 1960, HasYear: true, StartYear: 2022}, 1960},
		{"beyond end clamped to max", Input{Year: 2100, HasYear: true, StartYear: 2022}, 2070},
		{"in range kept", Input{Year: 2040, HasYear: true, StartYear: 2022}, 2040},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(tt.in)
			if r.Year != tt.want {
				t.Errorf("Year = %d, want %d", r.Year, tt.want)
			}
			if r.Year < r.Min || r.Year > r.Max {
				t.Errorf("year %d outside [%d, %d]", r.Year, r.Min, r.Max)
			}
		})
	}
}

func TestClamp_Idempotent(t *testing.T) {
	for _, year := range []int{1900, 1950, 2000, 2022, 2050, 2070, 2200} {
		once := Clamp(year, 2022, 2070)
		twice := Clamp(once, 2022, 2070)
		if once != twice {
			t.Errorf("Clamp(%d) = %d, Clamp twice = %d", year, once, twice)
		}
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name string
		year int
		want int
	}{
		{"steps by one", 2030, 2031},
		{"wraps at end", 2070, 2022},
		{"first year", 2022, 2023},
		{"not in domain resets", 1960, 2022},
		{"past end resets", 2071, 2022},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Advance(tt.year, 2022, 2070); got != tt.want {
				t.Errorf("Advance(%d) = %d, want %d", tt.year, got, tt.want)
			}
		})
	}
}

func TestResolve_Tick(t *testing.T) {
	r := Resolve(Input{Year: 2070, HasYear: true, Tick: true, StartYear: 2022})
	if r.Year != 2022 {
		t.Errorf("tick at end = %d, want 2022", r.Year)
	}

	r = Resolve(Input{Year: 2030, HasYear: true, Tick: true, StartYear: 2022})
	if r.Year != 2031 {
		t.Errorf("tick at 2030 = %d, want 2031", r.Year)
	}

	// Clamp happens before the step.
	r = Resolve(Input{Year: 1960, HasYear: true, Tick: true, StartYear: 2022})
	if r.Year != 2023 {
		t.Errorf("tick from clamped 1960 = %d, want 2023", r.Year)
	}
}
