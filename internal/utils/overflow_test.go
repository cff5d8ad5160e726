package utils

import (
	"math"
	"strings"
	"testing"
)

func TestCheckMultiplyOverflow(t *testing.T) {
	tests := []struct {
		name    string
		a       uint64
		b       uint64
		wantErr bool
	}{
		{"no overflow - small numbers", 10, 20, false},
		{"no overflow - one zero", 0, math.MaxUint64, false},
		{"no overflow - both zero", 0, 0, false},
		{"overflow - max * 2", math.MaxUint64, 2, true},
		{"overflow - large numbers", math.MaxUint64 / 2, 3, true},
		{"no overflow - exact max", math.MaxUint64, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMultiplyOverflow(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckMultiplyOverflow(%d, %d) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
			}
		})
	}
}

func TestSafeMultiply(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr bool
	}{
		{"normal multiplication", 10, 20, 200, false},
		{"zero multiplication", 0, 100, 0, false},
		{"overflow", math.MaxUint64, 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeMultiply(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeMultiply(%d, %d) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("SafeMultiply(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSafeAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		want    uint64
		wantErr bool
	}{
		{"normal addition", 10, 20, 30, false},
		{"no overflow at boundary", math.MaxUint64, 0, math.MaxUint64, false},
		{"overflow", math.MaxUint64, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeAdd(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Errorf("SafeAdd(%d, %d) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("SafeAdd(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValidateBufferSize(t *testing.T) {
	tests := []struct {
		name        string
		size        uint64
		maxSize     uint64
		description string
		wantErr     bool
		errContains string
	}{
		{"valid size", 1000, 10000, "test buffer", false, ""},
		{"exact max", 10000, 10000, "test buffer", false, ""},
		{"zero size", 0, 10000, "test buffer", true, "cannot be zero"},
		{"exceeds max", 10001, 10000, "test buffer", true, "exceeds maximum"},
		{"exceeds label size", 300 * 1024, MaxLabelSize, "label", true, "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBufferSize(tt.size, tt.maxSize, tt.description)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBufferSize(%d, %d, %q) error = %v, wantErr %v", tt.size, tt.maxSize, tt.description, err, tt.wantErr)
				return
			}
			if err != nil && tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateBufferSize(%d, %d, %q) error = %v, want error containing %q", tt.size, tt.maxSize, tt.description, err, tt.errContains)
			}
		})
	}
}

func TestValidateRangeWithinCapacity(t *testing.T) {
	tests := []struct {
		name                       string
		offset, length, capacity  uint64
		wantErr                    bool
	}{
		{"fits exactly", 0, 512, 512, false},
		{"fits with room", 100, 40, 512, false},
		{"exceeds capacity", 500, 40, 512, true},
		{"overflowing addition", math.MaxUint64, 1, 512, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRangeWithinCapacity(tt.offset, tt.length, tt.capacity)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRangeWithinCapacity(%d, %d, %d) error = %v, wantErr %v",
					tt.offset, tt.length, tt.capacity, err, tt.wantErr)
			}
		})
	}
}
