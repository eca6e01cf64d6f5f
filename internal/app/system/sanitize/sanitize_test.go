package sanitize_test

import (
	"testing"

	"github.com/dalemusser/donorhub/internal/app/system/sanitize"
)

func TestText_StripsMarkup(t *testing.T) {
	in := `<script>alert(1)</script>Need <b>O+</b> urgently`
	want := "Need O+ urgently"
	if got := sanitize.Text(in); got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestText_PlainPassesThrough(t *testing.T) {
	in := "Dhaka Medical College, ward 12"
	if got := sanitize.Text(in); got != in {
		t.Errorf("Text = %q, want unchanged", got)
	}
}

func TestText_Trims(t *testing.T) {
	if got := sanitize.Text("  hello  "); got != "hello" {
		t.Errorf("Text = %q", got)
	}
}
