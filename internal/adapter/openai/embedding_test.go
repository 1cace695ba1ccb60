package openai

import (
	"math"
	"testing"
)

func TestValidateVector(t *testing.T) {
	tests := []struct {
		name    string
		vector  []float32
		wantErr bool
	}{
		{"valid vector", []float32{0.1, -0.5, 0.9}, false},
		{"single component", []float32{1}, false},
		{"empty", []float32{}, true},
		{"nil", nil, true},
		{"contains NaN", []float32{0.1, float32(math.NaN()), 0.3}, true},
		{"contains +Inf", []float32{float32(math.Inf(1))}, true},
		{"contains -Inf", []float32{0.2, float32(math.Inf(-1))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVector(tt.vector)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVector(%v) error = %v, wantErr %v", tt.vector, err, tt.wantErr)
			}
		})
	}
}
