package extract

import (
	"strings"
	"testing"

	"github.com/AaronJay30/next-hire/internal/errors"
)

func TestExtractTextInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty bytes", nil},
		{"not a PDF", []byte("this is plain text, not a PDF document")},
		{"truncated header", []byte("%PDF-1.4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *errors.AppError, got %T", err)
			}
			if appErr.Type != errors.ErrorTypeIO {
				t.Errorf("expected error type %s, got %s", errors.ErrorTypeIO, appErr.Type)
			}
			if appErr.Code != errors.ErrCodeExtractionFailed {
				t.Errorf("expected error code %s, got %s", errors.ErrCodeExtractionFailed, appErr.Code)
			}
		})
	}
}

func TestValidateExtractedText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"just under threshold", strings.Repeat("a", MinTextLength-1), true},
		{"padded under threshold", "  " + strings.Repeat("a", MinTextLength-1) + "  ", true},
		{"exactly threshold", strings.Repeat("a", MinTextLength), false},
		{"typical resume text", strings.Repeat("Experienced software engineer. ", 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtractedText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtractedText() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
