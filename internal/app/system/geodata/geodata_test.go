package geodata_test

import (
	"testing"

	"github.com/dalemusser/donorhub/internal/app/system/geodata"
)

func TestDistricts_NonEmpty(t *testing.T) {
	ds := geodata.Districts()
	if len(ds) == 0 {
		t.Fatal("expected reference districts")
	}
	for _, d := range ds {
		if d.ID == "" || d.Name == "" || len(d.Upazilas) == 0 {
			t.Errorf("incomplete district entry: %+v", d)
		}
	}
}

func TestByID(t *testing.T) {
	d, ok := geodata.ByID("4")
	if !ok || d.Name != "Dhaka" {
		t.Errorf("ByID(4) = %v, %v", d, ok)
	}
	if _, ok := geodata.ByID("999"); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestValidDistrict(t *testing.T) {
	if !geodata.ValidDistrict("Sylhet") {
		t.Error("expected Sylhet to be valid")
	}
	if geodata.ValidDistrict("Atlantis") {
		t.Error("expected Atlantis to be invalid")
	}
}

func TestValidUpazila(t *testing.T) {
	if !geodata.ValidUpazila("Dhaka", "Savar") {
		t.Error("expected Savar in Dhaka")
	}
	if geodata.ValidUpazila("Dhaka", "Sreepur") {
		t.Error("Sreepur is not in Dhaka")
	}
	if geodata.ValidUpazila("Atlantis", "Savar") {
		t.Error("unknown district must fail")
	}
}
