package errors

import (
	"testing"
)

func TestValidateTemplateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "blank", false},
		{"valid with dash", "blank-1", false},
		{"valid lined", "lined-college", false},
		{"valid with underscore", "my_template", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path traversal //", "foo//bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTemplateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTemplateIDStrict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "blank", false},
		{"numbered", "blank-1", false},
		{"multi segment", "lined-wide-rule", false},
		{"digits only segment", "grid-5mm", false},

		{"empty", "", true},
		{"uppercase", "Blank-1", true},
		{"underscore", "blank_1", true},
		{"leading dash", "-blank", true},
		{"trailing dash", "blank-", true},
		{"double dash", "blank--1", true},
		{"spaces", "blank 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateIDStrict(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTemplateIDStrict(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"six digit", "#1a1a2e", false},
		{"three digit", "#fff", false},
		{"uppercase", "#2E4BC6", false},

		{"empty", "", true},
		{"no hash", "1a1a2e", true},
		{"wrong length", "#1a1a2", true},
		{"invalid chars", "#zzzzzz", true},
		{"named color", "blue", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInk) {
				t.Errorf("ValidateHexColor(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateOpacity(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"full", 1.0, false},
		{"partial", 0.85, false},
		{"barely visible", 0.01, false},

		{"zero", 0, true},
		{"negative", -0.5, true},
		{"above one", 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOpacity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOpacity(%g) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative path", "assets/paper/blank-1.png", false},
		{"valid filename only", "blank-1.png", false},
		{"valid https url", "https://cdn.example.com/paper/blank-1.png", false},
		{"valid http url", "http://cdn.example.com/paper/blank-1.png", false},
		{"url with query", "https://cdn.example.com/p.png?v=2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar.png", true},
		{"null byte", "foo\x00bar.png", true},
		{"backslash", "foo\\bar.png", true},
		{"control char", "foo\x01bar.png", true},
		{"newline", "foo\nbar.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateAssetRef(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidTemplate,
		ErrCodeInvalidInk,
		ErrCodeInvalidFont,
		ErrCodeInvalidQuality,
		ErrCodeInvalidConfig,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeTemplateNotFound,
		ErrCodeFileNotFound,
		ErrCodeLoadFailed,
		ErrCodeDecodeFailed,
		ErrCodeProcessingFailed,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRenderFailed,
		ErrCodeRenderAborted,
		ErrCodeRenderSuperseded,
		ErrCodeCapacity,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
