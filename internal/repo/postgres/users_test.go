package postgres_test

import (
	"testing"

	"github.com/ferrante/taskhub/internal/repo/postgres"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already_normal", in: "t@example.com", want: "t@example.com"},
		{name: "mixed_case", in: "T@Example.COM", want: "t@example.com"},
		{name: "surrounding_space", in: "  t@example.com ", want: "t@example.com"},
		{name: "both", in: " Dana.R@EXAMPLE.com  ", want: "dana.r@example.com"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := postgres.NormalizeEmail(tt.in); got != tt.want {
				t.Fatalf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
