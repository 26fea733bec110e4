package maidenhead

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestToLocationFourChar(t *testing.T) {
	// FN42 southwest corner: 42N, 72W. Centered: 42.5N, 71W.
	lat, lon, err := ToLocation("FN42", true)
	if err != nil {
		t.Fatalf("ToLocation: %v", err)
	}
	if !almostEqual(lat, 42.5) || !almostEqual(lon, -71.0) {
		t.Fatalf("got lat=%f lon=%f", lat, lon)
	}
}

func TestToLocationSixChar(t *testing.T) {
	lat, lon, err := ToLocation("FN42aa", false)
	if err != nil {
		t.Fatalf("ToLocation: %v", err)
	}
	if !almostEqual(lat, 42.0) || !almostEqual(lon, -72.0) {
		t.Fatalf("got lat=%f lon=%f", lat, lon)
	}
}

func TestToLocationLowercaseInput(t *testing.T) {
	lat1, lon1, err := ToLocation("fn42", true)
	if err != nil {
		t.Fatalf("ToLocation: %v", err)
	}
	lat2, lon2, _ := ToLocation("FN42", true)
	if lat1 != lat2 || lon1 != lon2 {
		t.Fatal("case should not matter")
	}
}

func TestToLocationInvalid(t *testing.T) {
	for _, grid := range []string{"", "F", "FN4", "ZZ99", "FN42zz9", "1234"} {
		if _, _, err := ToLocation(grid, false); err == nil {
			t.Fatalf("expected error for %q", grid)
		}
	}
}
