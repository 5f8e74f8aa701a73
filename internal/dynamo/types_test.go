package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestConfiguration_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		c     Configuration
		valid bool
	}{
		{"empty", Configuration{}, true},
		{"normal", Configuration{{1, 2, 3}, {4, 5, 6}}, true},
		{"with NaN", Configuration{{1, math.NaN(), 0}}, false},
		{"with +Inf", Configuration{{math.Inf(1), 0, 0}}, false},
		{"with -Inf", Configuration{{0, 0, math.Inf(-1)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := (Vec3{3, 4, 0}).Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm failed: got %v", got)
	}
}

func TestConfiguration_CloneIsIndependent(t *testing.T) {
	src := Configuration{{1, 2, 3}}
	c := src.Clone()
	c[0][0] = 99
	if src[0][0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestFromRows(t *testing.T) {
	c, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c) != 2 || c[1] != (Vec3{4, 5, 6}) {
		t.Errorf("unexpected configuration %v", c)
	}

	rows := c.Rows()
	if rows[0][2] != 3 {
		t.Errorf("Rows round trip failed: %v", rows)
	}

	_, err = FromRows([][]float64{{1, 2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Parameter: "epsilon"}
	if err.Error() != "ConfigurationError: epsilon not set" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrParameterUnset) {
		t.Error("ConfigurationError should unwrap to ErrParameterUnset")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 15, Wrapped: ErrInvalidState}
	expected := "step 15: dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap")
	}
}
