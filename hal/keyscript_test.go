package hal

import (
	"reflect"
	"testing"
)

func TestParseKeyScript(t *testing.T) {
	got, err := ParseKeyScript("12+ <Enter>\t<space> <esc>")
	if err != nil {
		t.Fatalf("ParseKeyScript: %v", err)
	}
	want := []KeyEvent{
		{Press: true, Rune: '1'},
		{Press: true, Rune: '2'},
		{Press: true, Rune: '+'},
		{Code: KeyEnter, Press: true},
		{Code: KeyEnter},
		{Press: true, Rune: ' '},
		{Code: KeyEscape, Press: true},
		{Code: KeyEscape},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestParseKeyScriptNamedKeyInsideText(t *testing.T) {
	got, err := ParseKeyScript("7*6<enter><esc>x")
	if err != nil {
		t.Fatalf("ParseKeyScript: %v", err)
	}
	want := []KeyEvent{
		{Press: true, Rune: '7'},
		{Press: true, Rune: '*'},
		{Press: true, Rune: '6'},
		{Code: KeyEnter, Press: true},
		{Code: KeyEnter},
		{Code: KeyEscape, Press: true},
		{Code: KeyEscape},
		{Press: true, Rune: 'x'},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestParseKeyScriptLiteralAngleBrackets(t *testing.T) {
	got, err := ParseKeyScript("<>1<2 <")
	if err != nil {
		t.Fatalf("ParseKeyScript: %v", err)
	}
	var runes []rune
	for _, ev := range got {
		if ev.Code != KeyUnknown {
			t.Fatalf("unexpected named key %+v", ev)
		}
		runes = append(runes, ev.Rune)
	}
	if string(runes) != "<>1<2<" {
		t.Fatalf("typed %q", string(runes))
	}
}

func TestParseKeyScriptRejectsUnknownKey(t *testing.T) {
	for _, script := range []string{"1 <f13>", "9<f13>"} {
		if _, err := ParseKeyScript(script); err == nil {
			t.Fatalf("%q: expected error", script)
		}
	}
}

func TestParseKeyScriptEmpty(t *testing.T) {
	got, err := ParseKeyScript("   ")
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestFramebufferClearAndSnapshot(t *testing.T) {
	fb := NewMemFramebuffer(4, 3)
	fb.ClearRGB(0xFF, 0x00, 0x00)

	r, g, b := fb.RGBAt(3, 2)
	if r != 0xFF || g != 0 || b != 0 {
		t.Fatalf("pixel=(%d,%d,%d)", r, g, b)
	}
	if r, g, b := fb.RGBAt(-1, 0); r|g|b != 0 {
		t.Fatal("out of range read must be black")
	}

	img := fb.Snapshot(nil)
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds=%v", img.Bounds())
	}
	c := img.RGBAAt(1, 1)
	if c.R != 0xFF || c.A != 0xFF {
		t.Fatalf("snapshot pixel=%v", c)
	}
	if again := fb.Snapshot(img); again != img {
		t.Fatal("snapshot must reuse a matching image")
	}
}

func TestRGB565RoundTripExtremes(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {0xFF, 0xFF, 0xFF}, {0xFF, 0, 0}, {0, 0xFF, 0}, {0, 0, 0xFF}} {
		r, g, b := RGB888From565(RGB565(c[0], c[1], c[2]))
		if r != c[0] || g != c[1] || b != c[2] {
			t.Fatalf("%v -> (%d,%d,%d)", c, r, g, b)
		}
	}
}
