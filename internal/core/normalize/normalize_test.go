package normalize

import "testing"

func TestCleanRemovesURL(t *testing.T) {
	got := Clean("Visit http://example.com now")
	if got != "Visit now" {
		t.Fatalf("Clean() = %q, want %q", got, "Visit now")
	}
}

func TestCleanRemovesRetweetMentionHashtagAndPunctuation(t *testing.T) {
	got := Clean("RT @john: Check #jobs!!")
	if got != " Check jobs " {
		t.Fatalf("Clean() = %q, want %q", got, " Check jobs ")
	}
}

func TestCleanMatchesRetweetMarkersInsideWords(t *testing.T) {
	got := Clean("Accounting ART")
	if got != "A ounting A " {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestCleanHashtagNeedsTrailingWhitespace(t *testing.T) {
	if got := Clean("#python developer"); got != " developer" {
		t.Fatalf("Clean() = %q", got)
	}
	if got := Clean("developer #python"); got != "developer python" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestCleanURLAtEndOfInputOnlyLosesPunctuation(t *testing.T) {
	got := Clean("see http://x.io")
	if got != "see http x io" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestCleanReplacesNonASCII(t *testing.T) {
	got := Clean("Résumé — Software Engineer")
	if got != "R sum Software Engineer" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestCleanCollapsesAllBlankKinds(t *testing.T) {
	got := Clean("a\t\tb\n\nc\v\fd   e")
	if got != "a b c d e" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestCleanIsIdempotentOnCleanInput(t *testing.T) {
	inputs := []string{
		"Senior   Java developer\n\nSpring Boot",
		" leading and trailing ",
		"",
		"plain words only",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Fatalf("Clean not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestCleanStripsPunctuation(t *testing.T) {
	got := Clean("a!\"$%&'()*+,-./:;<=>?[\\]^_`{|}~b")
	if got != "a b" {
		t.Fatalf("Clean() = %q", got)
	}
	if got := Clean("x#y"); got != "x y" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestTrimBlank(t *testing.T) {
	tests := map[string]string{
		"\x1c\x1d":                 "",
		"\x1f Java \x1e":           "Java",
		"\u00a0\u3000Python\u2029": "Python",
		"\n  a  b \t":              "a  b",
		"":                         "",
	}
	for in, want := range tests {
		if got := TrimBlank(in); got != want {
			t.Fatalf("TrimBlank(%q) = %q, want %q", in, got, want)
		}
	}
}
