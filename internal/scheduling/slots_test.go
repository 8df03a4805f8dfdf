package scheduling

import (
	"reflect"
	"testing"
	"time"
)

func TestFindSlots_EmptyBusyFillsWindow(t *testing.T) {
	tests := []struct {
		name     string
		window   TimeWindow
		duration time.Duration
		want     int
	}{
		{"three hours of half hours", TimeWindow{at(7, 10, 0), at(7, 13, 0)}, 30 * time.Minute, 6},
		{"partial tail is dropped", TimeWindow{at(7, 10, 0), at(7, 11, 40)}, 30 * time.Minute, 3},
		{"hour slots", TimeWindow{at(7, 10, 0), at(7, 13, 0)}, time.Hour, 3},
		{"window shorter than slot", TimeWindow{at(7, 10, 0), at(7, 10, 20)}, 30 * time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := FindSlots(tt.window, nil, tt.duration)
			if len(slots) != tt.want {
				t.Fatalf("expected %d slots, got %d: %v", tt.want, len(slots), slots)
			}
			for i, s := range slots {
				if want := tt.window.Start.Add(time.Duration(i) * tt.duration); !s.Equal(want) {
					t.Fatalf("slot %d = %s, want %s", i, s, want)
				}
			}
		})
	}
}

func TestFindSlots_TouchingBusyDoesNotOverlap(t *testing.T) {
	window := TimeWindow{at(7, 10, 0), at(7, 13, 0)}
	busy := []BusyInterval{{Start: at(7, 10, 0), End: at(7, 10, 30)}}

	slots := FindSlots(window, busy, 30*time.Minute)

	want := []time.Time{at(7, 10, 30), at(7, 11, 0), at(7, 11, 30), at(7, 12, 0), at(7, 12, 30)}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("got %v, want %v", slots, want)
	}
}

func TestFindSlots_PartialOverlapBlocksBothSlots(t *testing.T) {
	window := TimeWindow{at(7, 10, 0), at(7, 12, 0)}
	busy := []BusyInterval{{Start: at(7, 10, 15), End: at(7, 10, 45)}}

	slots := FindSlots(window, busy, 30*time.Minute)

	want := []time.Time{at(7, 11, 0), at(7, 11, 30)}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("got %v, want %v", slots, want)
	}
}

func TestFindSlots_NeverOverlapsBusy(t *testing.T) {
	window := TimeWindow{at(7, 8, 0), at(7, 18, 0)}
	busy := []BusyInterval{
		{Start: at(7, 8, 10), End: at(7, 8, 20)},
		{Start: at(7, 9, 30), End: at(7, 11, 0)},
		{Start: at(7, 12, 59), End: at(7, 13, 1)},
		{Start: at(7, 17, 0), End: at(7, 19, 0)},
	}
	duration := 30 * time.Minute

	slots := FindSlots(window, busy, duration)
	if len(slots) == 0 {
		t.Fatal("expected some free slots")
	}
	for _, s := range slots {
		for _, b := range busy {
			if b.Overlaps(s, s.Add(duration)) {
				t.Fatalf("slot %s overlaps busy %s-%s", s, b.Start, b.End)
			}
		}
	}
}

func TestFindSlots_Deterministic(t *testing.T) {
	window := TimeWindow{at(7, 10, 0), at(7, 13, 0)}
	busy := []BusyInterval{{Start: at(7, 11, 0), End: at(7, 11, 30)}}

	first := FindSlots(window, busy, 30*time.Minute)
	second := FindSlots(window, busy, 30*time.Minute)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output, got %v and %v", first, second)
	}
}

func TestFindSlots_InvalidInput(t *testing.T) {
	window := TimeWindow{at(7, 10, 0), at(7, 13, 0)}
	if got := FindSlots(window, nil, 0); got != nil {
		t.Fatalf("expected nil for zero duration, got %v", got)
	}
	if got := FindSlots(TimeWindow{window.End, window.Start}, nil, 30*time.Minute); got != nil {
		t.Fatalf("expected nil for inverted window, got %v", got)
	}
}

func TestConfig_WorkingHourSlots(t *testing.T) {
	cfg := testConfig()
	slots := []time.Time{
		at(7, 6, 30),
		at(7, 7, 0),
		at(7, 21, 30),
		at(7, 22, 0),
		// 16:00 UTC is 21:30 IST.
		time.Date(2024, time.June, 7, 16, 0, 0, 0, time.UTC),
	}

	got := cfg.WorkingHourSlots(slots)

	want := []time.Time{at(7, 7, 0), at(7, 21, 30), at(7, 21, 30)}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) || got[i].Location() != ist {
			t.Fatalf("slot %d = %s, want %s in IST", i, got[i], want[i])
		}
	}
}
