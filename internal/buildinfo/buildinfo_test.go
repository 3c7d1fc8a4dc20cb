package buildinfo

import "testing"

func TestShortPrefersVersionThenCommit(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	Version, Commit = "v1.2.0", "abc123"
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("Short()=%q", got)
	}
	Version = "dev"
	if got := Short(); got != "abc123" {
		t.Fatalf("Short()=%q", got)
	}
	Commit = "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("Short()=%q", got)
	}
}

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "v1", "abc", "2026-01-02"
	if got, want := String(), "v1 (commit abc, built 2026-01-02)"; got != want {
		t.Fatalf("String()=%q, want %q", got, want)
	}
}
