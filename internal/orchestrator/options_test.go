package orchestrator

import "testing"

func TestDefaultOptionsAreValid(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	if opts.Language != "auto" || opts.MaxSegmentLength != 5 {
		t.Fatalf("unexpected defaults %#v", opts)
	}
}

func TestNextLanguageCycles(t *testing.T) {
	opts := DefaultOptions()
	seen := []string{opts.Language}
	for range Languages {
		opts = opts.NextLanguage()
		seen = append(seen, opts.Language)
	}
	want := []string{"auto", "tr", "en", "de", "fr", "es", "auto"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestNextSegmentLengthCycles(t *testing.T) {
	opts := DefaultOptions()
	var got []int
	for range SegmentLengths {
		opts = opts.NextSegmentLength()
		got = append(got, opts.MaxSegmentLength)
	}
	want := []int{10, 15, 2, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", got, want)
		}
	}
}

func TestLanguageLabel(t *testing.T) {
	if got := LanguageLabel("de"); got != "German" {
		t.Fatalf("LanguageLabel(de) = %q", got)
	}
	if got := LanguageLabel("xx"); got != "xx" {
		t.Fatalf("LanguageLabel(xx) = %q", got)
	}
}
