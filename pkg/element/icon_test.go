package element_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-liveform/pkg/element"
)

func TestSanitizeIcon_MaterialTokens(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{":material/thumb_up:", ":material/thumb_up:"},
		{":material/sentiment_very_satisfied:", ":material/sentiment_very_satisfied:"},
		{"  :material/star:  ", ":material/star:"},
		{":material/:", ":material/:"},        // malformed: kept as plain text
		{":material/Thumb-Up:", ":material/Thumb-Up:"}, // invalid chars: plain text
	}
	for _, tc := range cases {
		if got := element.SanitizeIcon(tc.in); got != tc.want {
			t.Errorf("SanitizeIcon(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIcon_SVGIsSanitized(t *testing.T) {
	in := `<svg viewBox="0 0 24 24"><script>alert(1)</script><path d="M0 0h24v24z"/></svg>`
	got := element.SanitizeIcon(in)
	if strings.Contains(got, "script") {
		t.Fatalf("script survived sanitizing: %q", got)
	}
	if !strings.Contains(got, "<path") {
		t.Fatalf("path element removed: %q", got)
	}
}

func TestSanitizeIcon_EmojiAndEmpty(t *testing.T) {
	if got := element.SanitizeIcon("☕"); got != "☕" {
		t.Fatalf("emoji mangled: %q", got)
	}
	if got := element.SanitizeIcon("   "); got != "" {
		t.Fatalf("blank input should be dropped, got %q", got)
	}
	if got := element.SanitizeIcon("<b onclick=x>hi</b>"); got != "hi" {
		t.Fatalf("markup not stripped to text: %q", got)
	}
}
