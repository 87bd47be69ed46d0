//go:build integration

package npm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/depwatch/pkg/integrations"
)

func TestFetchPackage_Integration(t *testing.T) {
	client := NewClient(nil, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		pkg     string
		wantErr bool
	}{
		{"express", "express", false},
		{"scoped", "@types/node", false},
		{"nonexistent", "this-package-should-not-exist-12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := client.FetchPackage(ctx, tt.pkg, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FetchPackage(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, integrations.ErrNotFound) {
					t.Errorf("error = %v, want ErrNotFound", err)
				}
				return
			}
			if pkg.Version == "" {
				t.Error("package version should not be empty")
			}
		})
	}
}
