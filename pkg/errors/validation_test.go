package errors

import (
	"strings"
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "express", false},
		{"valid with dash", "my-package", false},
		{"valid with underscore", "my_package", false},
		{"valid with dot", "my.package", false},
		{"valid scoped npm", "@scope/package", false},
		{"valid composer", "symfony/console", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
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
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"https", "https://github.com/user/repo", false},
		{"http", "http://example.com", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "github.com/user/repo", true},
		{"javascript", "javascript:alert(1)", true},
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

func TestValidateNpmPackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "express", false},
		{"with dash", "body-parser", false},
		{"scoped", "@nestjs/core", false},
		{"with dots", "lodash.merge", false},
		{"legacy uppercase", "JSONStream", false},

		{"empty", "", true},
		{"space", "my package", true},
		{"starts with dot", ".hidden", true},
		{"double scope", "@a/@b/c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNpmPackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNpmPackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateComposerPackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "symfony/console", false},
		{"dashes", "doctrine/annotations", false},
		{"dots", "twig/twig", false},
		{"polyfill", "symfony/polyfill-ctype", false},

		{"no vendor", "monolog", true},
		{"empty", "", true},
		{"three parts", "a/b/c", true},
		{"space", "sym fony/console", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComposerPackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComposerPackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid filename only", "package.json", false},
		{"valid nested", "packages/app/package.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "random@example.com", false},
		{"digits", "oguzcanyavuz321@gmail.com", false},
		{"plus tag", "dev+alerts@example.co.uk", false},

		{"empty", "", true},
		{"no at", "invalid-email", true},
		{"no domain dot", "user@localhost", true},
		{"display name", "Jane <jane@example.com>", true},
		{"trailing dot", "user@example.", true},
		{"spaces", "user @example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidEmail) {
				t.Errorf("ValidateEmail(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateEmails(t *testing.T) {
	if err := ValidateEmails(nil); !Is(err, ErrCodeInvalidEmail) {
		t.Errorf("ValidateEmails(nil) = %v, want INVALID_EMAIL", err)
	}
	if err := ValidateEmails([]string{"a@example.com", "b@example.org"}); err != nil {
		t.Errorf("ValidateEmails(valid) = %v", err)
	}
	err := ValidateEmails([]string{"oguzcanyavuz321@gmail.com", "invalid-email"})
	if !Is(err, ErrCodeInvalidEmail) {
		t.Errorf("ValidateEmails(mixed) = %v, want INVALID_EMAIL", err)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidRepositoryURL,
		ErrCodeInvalidEmail,
		ErrCodeInvalidPackage,
		ErrCodeSubscriptionNotFound,
		ErrCodeRepositoryNotFound,
		ErrCodeManifestNotFound,
		ErrCodePackageNotFound,
		ErrCodeManifestParse,
		ErrCodeProviderUnavailable,
		ErrCodeRegistryUnavailable,
		ErrCodeRateLimited,
		ErrCodeNotImplemented,
		ErrCodeUnsupported,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
