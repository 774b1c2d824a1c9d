package types

import "testing"

func TestMechanismState_StringRoundTrip(t *testing.T) {
	for _, s := range []MechanismState{StateIdle, StateDeploying, StateRotating, StateRetract} {
		got, ok := ParseMechanismState(s.String())
		if !ok || got != s {
			t.Fatalf("ParseMechanismState(%q) = %v,%v", s.String(), got, ok)
		}
	}
	if MechanismState(42).String() != "unknown" {
		t.Fatalf("unexpected name for out-of-range state")
	}
	if _, ok := ParseMechanismState("bogus"); ok {
		t.Fatalf("bogus state parsed")
	}
}

func TestQuaternion_IsZero(t *testing.T) {
	if !(Quaternion{}).IsZero() {
		t.Fatalf("zero quaternion not reported zero")
	}
	for _, q := range []Quaternion{{W: 1}, {X: -0.5}, {Y: 1e-9}, {Z: 2}} {
		if q.IsZero() {
			t.Fatalf("%+v reported zero", q)
		}
	}
}

func TestVec3_DistSq(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 1, Y: 0, Z: 0}
	if got := a.DistSq(b); got != 13 {
		t.Fatalf("DistSq=%v want 13", got)
	}
	if a.DistSq(a) != 0 {
		t.Fatalf("DistSq to self not zero")
	}
}

func TestPPSConfig_Normalised(t *testing.T) {
	c := PPSConfig{}.Normalised()
	if c.IntervalMs != DefaultIntervalMs || c.TelemetryEvery != DefaultTelemetryEvery || c.MoveSpeed != DefaultMoveSpeed {
		t.Fatalf("defaults not applied: %+v", c)
	}
	c = PPSConfig{IntervalMs: 5, TelemetryEvery: 1, MoveSpeed: 80}.Normalised()
	if c.IntervalMs != 5 || c.TelemetryEvery != 1 || c.MoveSpeed != 80 {
		t.Fatalf("explicit values overwritten: %+v", c)
	}
}

func TestHeartbeatConfig_Normalised(t *testing.T) {
	if got := (HeartbeatConfig{}).Normalised().IntervalMs; got != DefaultHeartbeatMs {
		t.Fatalf("default interval=%d", got)
	}
	if got := (HeartbeatConfig{IntervalMs: 250}).Normalised().IntervalMs; got != 250 {
		t.Fatalf("explicit interval=%d", got)
	}
}
