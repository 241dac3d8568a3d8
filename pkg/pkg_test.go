package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "tmplvars" {
		t.Errorf("Expected Name to be %q, got %q", "tmplvars", Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected Description to be non-empty")
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if strings.ContainsAny(Version, " \t\r\n") {
		t.Errorf("Expected Version without whitespace, got %q", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestUserDir(t *testing.T) {
	tests := []struct {
		name   string
		base   func() (string, error)
		hidden string
		want   func() string
	}{
		{
			name:   "base_ok",
			base:   func() (string, error) { return "/base", nil },
			hidden: ".config",
			want:   func() string { return filepath.Join("/base", Prefix()) },
		},
		{
			name:   "base_fails",
			base:   func() (string, error) { return "", os.ErrNotExist },
			hidden: ".cache",
			want: func() string {
				home, err := os.UserHomeDir()
				if err != nil {
					t.Skip("no home directory")
				}

				return filepath.Join(home, ".cache", Prefix())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want()
			if got := userDir(tt.base, tt.hidden); got != want {
				t.Errorf("userDir() = %q, want %q", got, want)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	if p := Prefix(); p == "" || strings.HasPrefix(p, ".") {
		t.Errorf("Prefix() = %q, want non-empty without leading dot", p)
	}
}
