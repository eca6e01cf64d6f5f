package bloodgroups_test

import (
	"testing"

	"github.com/dalemusser/donorhub/internal/app/system/bloodgroups"
)

func TestIsValid_AllEight(t *testing.T) {
	for _, g := range bloodgroups.All {
		if !bloodgroups.IsValid(g) {
			t.Errorf("expected %q to be valid", g)
		}
	}
	if len(bloodgroups.All) != 8 {
		t.Errorf("expected 8 blood groups, got %d", len(bloodgroups.All))
	}
}

func TestIsValid_NormalizesCase(t *testing.T) {
	for _, g := range []string{"o+", " ab- ", "a+"} {
		if !bloodgroups.IsValid(g) {
			t.Errorf("expected %q to normalize to a valid group", g)
		}
	}
}

func TestIsValid_Rejects(t *testing.T) {
	for _, g := range []string{"", "C+", "AB", "O", "A +", "0+"} {
		if bloodgroups.IsValid(g) {
			t.Errorf("expected %q to be invalid", g)
		}
	}
}
