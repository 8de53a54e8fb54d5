package nameutil

import "testing"

func TestValidateDomain(t *testing.T) {
	for _, ok := range []string{"combined_energy", "abc", "a1_b2"} {
		if err := ValidateDomain(ok); err != nil {
			t.Fatalf("expected %q to validate: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "Combined", "has space", "has-dash"} {
		if err := ValidateDomain(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestFuzzyMatch(t *testing.T) {
	if !FuzzyMatch("Solar PV", "solar") {
		t.Fatal("expected substring match")
	}
	if !FuzzyMatch("Solar PV", "slr") {
		t.Fatal("expected subsequence match")
	}
	if !FuzzyMatch("anything", "") {
		t.Fatal("empty query should match")
	}
	if FuzzyMatch("Grid Meter", "solar") {
		t.Fatal("unexpected match")
	}
}
