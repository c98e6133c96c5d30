package models_test

import (
	"testing"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

func TestParseScannedCode(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantCode       string
		wantStructured bool
	}{
		{"structured QR payload", `{"qrCodeId":"abc-123"}`, "abc-123", true},
		{"structured payload with extra fields", `{"qrCodeId":"abc-123","memberName":"Jo"}`, "abc-123", true},
		{"bare code", "abc-123", "abc-123", false},
		{"bare code with surrounding whitespace", "  abc-123\n", "abc-123", false},
		{"JSON without qrCodeId falls back to raw", `{"foo":"bar"}`, `{"foo":"bar"}`, false},
		{"malformed JSON falls back to raw", `{"qrCodeId":`, `{"qrCodeId":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.ParseScannedCode(tt.input)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Structured != tt.wantStructured {
				t.Errorf("structured = %v, want %v", got.Structured, tt.wantStructured)
			}
		})
	}
}
