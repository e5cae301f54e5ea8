package param

import "testing"

func TestReverbParamsDefaults(t *testing.T) {
	p := NewReverbParams()
	s := p.Snapshot()

	if s.DryWet != 30 {
		t.Errorf("default dryWet should be 30, got %v", s.DryWet)
	}
	if s.RoomSize != 0.6 {
		t.Errorf("default roomSize should be 0.6, got %v", s.RoomSize)
	}
	if s.SatType != SatWarm {
		t.Errorf("default satType should be Warm, got %v", s.SatType)
	}
	if s.Oversampling != OversamplingX2 {
		t.Errorf("default oversampling should be 2x, got %v", s.Oversampling)
	}
	if s.BypassEarly {
		t.Errorf("bypass flags should default to false")
	}
}

func TestReverbParamsClampRanges(t *testing.T) {
	p := NewReverbParams()
	p.SetDryWet(200)
	if got := p.Snapshot().DryWet; got != 100 {
		t.Errorf("dryWet should clamp to 100, got %v", got)
	}
	p.SetRoomSize(-1)
	if got := p.Snapshot().RoomSize; got != 0.1 {
		t.Errorf("roomSize should clamp to 0.1, got %v", got)
	}
	p.SetLowRT60(100)
	if got := p.Snapshot().LowRT60; got != 12.0 {
		t.Errorf("lowRT60 should clamp to 12.0, got %v", got)
	}
}

func TestSatTypeFormatterRoundTrip(t *testing.T) {
	for i, name := range SatTypeNames {
		v, err := SatTypeParser(name)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", name, err)
		}
		if int(v) != i {
			t.Errorf("parsing %q should yield %d, got %v", name, i, v)
		}
		if SatTypeFormatter(v) != name {
			t.Errorf("formatting %v should round-trip to %q, got %q", v, name, SatTypeFormatter(v))
		}
	}
}
