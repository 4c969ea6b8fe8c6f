package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "petersen", false},
		{"valid with spaces", "my drawing", false},
		{"valid with dash", "k-4", false},
		{"valid unicode", "graphe orienté", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("k", 129), true},
		{"longest", strings.Repeat("k", 128), false},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"valid uppercase", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", false},

		{"empty", "", true},
		{"garbage", "not-a-uuid", true},
		{"traversal", "../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDocument) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidDocument)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#fff", false},
		{"#A0b1C2", false},
		{"fff", true},
		{"#ffff", true},
		{"#ggg", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if err := ValidateColor(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGrid(t *testing.T) {
	if err := ValidateGrid(10); err != nil {
		t.Errorf("ValidateGrid(10) = %v", err)
	}
	for _, v := range []float64{0, -5} {
		if err := ValidateGrid(v); !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateGrid(%v) = %v, want INVALID_CONFIG", v, err)
		}
	}
}
