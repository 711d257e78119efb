package brief

import "testing"

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"ad line", "Ad 3: \"Foo\"\nbody", "Foo", true},
		{"ad line beats title line", "Title: \"Bar\"\n\nAd 3: \"Foo\"", "Foo", true},
		{"ad with words", "Ad Concept B:  \"Morning Routine\"", "Morning Routine", true},
		{"video title", "Intro\nVideo Title: \"Launch Day\"\n", "Launch Day", true},
		{"video title beats title line", "title: plain\nVideo Title: \"Quoted\"", "Quoted", true},
		{"title line unquoted", "# Brief\nTitle: Summer Drop  \nHook: x", "Summer Drop", true},
		{"title line quoted", "  TITLE: \"Loud\"", "Loud", true},
		{"empty title line", "Title: \"\"\nbody", "", false},
		{"no title", "Just some notes about the video.", "", false},
		{"title not at line start", "The Title: \"Nope\"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTitle(tt.text)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractTitle() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"My/Ad: Test*":         "My_Ad_Test",
		"  spaced   out  ":     "spaced_out",
		"Keep-these_(ok) [v2]": "Keep-these_(ok)_[v2]",
		"Café Déjà Vu":         "Café_Déjà_Vu",
		"What?! Really...":     "What_Really",
		"***":                  "",
		"tab\tand\nnewline":    "tab_and_newline",
		`quote "inside" & amp`: "quote_inside_amp",
	}

	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
