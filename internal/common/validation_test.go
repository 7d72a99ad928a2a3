package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	analysisFormats := []string{"json", "text", "markdown"}

	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectErr        bool
	}{
		{"json allowed", "json", analysisFormats, false},
		{"text allowed", "text", analysisFormats, false},
		{"markdown allowed", "markdown", analysisFormats, false},
		{"yaml rejected", "yaml", analysisFormats, true},
		{"case sensitive", "JSON", analysisFormats, true},
		{"empty format rejected", "", analysisFormats, true},
		{"no restriction configured", "yaml", nil, false},
		{"single format allowed", "json", []string{"json"}, false},
		{"single format rejected", "text", []string{"json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.format) {
					t.Errorf("error should name the rejected format %q: %v", tt.format, err)
				}
				for _, supported := range tt.supportedFormats {
					if !strings.Contains(err.Error(), supported) {
						t.Errorf("error should list supported format %q: %v", supported, err)
					}
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	configured := []string{"json", "text", "markdown"}

	got := GetSupportedFormats(configured)
	if len(got) != len(configured) {
		t.Fatalf("expected %d formats, got %d", len(configured), len(got))
	}
	for i, format := range configured {
		if got[i] != format {
			t.Errorf("expected format[%d] = %q, got %q", i, format, got[i])
		}
	}

	if got := GetSupportedFormats(nil); len(got) != 0 {
		t.Errorf("expected no formats for nil config, got %v", got)
	}
}
