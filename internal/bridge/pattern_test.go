package bridge

import "testing"

func TestIsPattern(t *testing.T) {
	if isPattern("user:login") {
		t.Fatal("exact name misdetected as pattern")
	}
	if !isPattern("user:*") {
		t.Fatal("single wildcard not detected")
	}
	if !isPattern("**") {
		t.Fatal("double wildcard not detected")
	}
}

func TestCompilePatternSingleSegment(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"user:*", "user:login", true},
		{"user:*", "user:logout", true},
		{"user:*", "admin:login", false},
		{"user:*", "user:profile:update", false},
		{"user:*", "user:", false},
		{"*:login", "user:login", true},
		{"*:login", "admin:login", true},
		{"*:login", "user:logout", false},
		{"pet:*:done", "pet:feed:done", true},
		{"pet:*:done", "pet:feed:wash:done", false},
	}
	for _, tc := range cases {
		m, err := compilePattern(tc.pattern)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.pattern, err)
		}
		if got := m.matches(tc.name); got != tc.want {
			t.Errorf("pattern %q against %q: got %v, want %v", tc.pattern, tc.name, got, tc.want)
		}
	}
}

func TestCompilePatternMultiSegment(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"**", "user:login", true},
		{"**", "a", true},
		{"**", "", false},
		{"user:**", "user:login", true},
		{"user:**", "user:profile:update", true},
		{"user:**", "admin:login", false},
		{"user:**", "user:", false},
	}
	for _, tc := range cases {
		m, err := compilePattern(tc.pattern)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.pattern, err)
		}
		if got := m.matches(tc.name); got != tc.want {
			t.Errorf("pattern %q against %q: got %v, want %v", tc.pattern, tc.name, got, tc.want)
		}
	}
}

func TestCompilePatternQuotesRegexMeta(t *testing.T) {
	m, err := compilePattern("user.admin:*")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !m.matches("user.admin:login") {
		t.Fatal("literal dot should match itself")
	}
	if m.matches("userxadmin:login") {
		t.Fatal("dot must not act as a regex wildcard")
	}
}
