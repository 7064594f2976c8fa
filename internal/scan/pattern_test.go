package scan

import "testing"

func TestParsePatternExactBytes(t *testing.T) {
	pb, err := ParsePattern("48 8B 0D")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	want := []byte{0x48, 0x8B, 0x0D}
	if len(pb) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(pb), len(want))
	}
	for i, w := range want {
		if !pb[i].Matches(w) {
			t.Errorf("byte %d: pattern %+v should match 0x%02x", i, pb[i], w)
		}
	}
}

func TestParsePatternFullWildcard(t *testing.T) {
	pb, err := ParsePattern("??")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	for _, b := range []byte{0x00, 0x42, 0xFF} {
		if !pb[0].Matches(b) {
			t.Errorf("full wildcard should match 0x%02x", b)
		}
	}
}

func TestParsePatternNibbleWildcard(t *testing.T) {
	pb, err := ParsePattern("C?")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	for b := byte(0xC0); b <= 0xCF; b++ {
		if !pb[0].Matches(b) {
			t.Errorf("C? should match 0x%02x", b)
		}
	}
	if pb[0].Matches(0xD0) {
		t.Error("C? should not match 0xD0")
	}
}

func TestParsePatternLowNibbleWildcard(t *testing.T) {
	pb, err := ParsePattern("8?")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	if !pb[0].Matches(0x80) || !pb[0].Matches(0x8F) {
		t.Error("8? should match both 0x80 and 0x8f")
	}
	if pb[0].Matches(0x90) {
		t.Error("8? should not match 0x90")
	}
}

func TestParsePatternInvalidToken(t *testing.T) {
	if _, err := ParsePattern("ABC"); err == nil {
		t.Fatal("expected error for a 3-character token")
	}
}

func TestMustParsePatternPanicsOnBadLiteral(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on malformed literal pattern")
		}
	}()
	MustParsePattern("ZZ")
}
