package browser

import (
	"strings"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"",
	}

	for _, url := range tests {
		if err := Open(url); err == nil {
			t.Errorf("Open(%q): expected error, got nil", url)
		}
	}
}

func TestLaunchCmdPerOS(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}

	for _, tt := range tests {
		cmd := launchCmd(tt.goos, "https://example.com")
		if !strings.HasSuffix(cmd.Path, tt.want) && cmd.Args[0] != tt.want {
			t.Errorf("launchCmd(%q): got %q, want %q", tt.goos, cmd.Args[0], tt.want)
		}
	}
}
