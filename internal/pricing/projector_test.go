package pricing

import (
	"math"
	"testing"
)

func TestProjectVariantPrice(t *testing.T) {
	got, err := ProjectVariantPrice(dec("6440.83"), dec("5"), dec("7"))
	if err != nil {
		t.Fatalf("ProjectVariantPrice: %v", err)
	}
	wantExact(t, "projectedPrice", got, "9017.16")
}

// Two variants projected from the same anchor keep the same ratio as their
// weights, within persistence rounding.
func TestProjectVariantPrice_Proportionality(t *testing.T) {
	basePrice, baseWeight := dec("6440.83"), dec("5")

	a, err := ProjectVariantPrice(basePrice, baseWeight, dec("7"))
	if err != nil {
		t.Fatalf("ProjectVariantPrice(7): %v", err)
	}
	b, err := ProjectVariantPrice(basePrice, baseWeight, dec("3"))
	if err != nil {
		t.Fatalf("ProjectVariantPrice(3): %v", err)
	}

	priceRatio, _ := a.Div(b).Float64()
	weightRatio := 7.0 / 3.0
	if math.Abs(priceRatio-weightRatio) > 0.01 {
		t.Fatalf("price ratio %v deviates from weight ratio %v", priceRatio, weightRatio)
	}
}

func TestProjectVariantPrice_RequiresPositiveBaseWeight(t *testing.T) {
	for _, w := range []string{"0", "-2"} {
		if _, err := ProjectVariantPrice(dec("100"), dec(w), dec("3")); err == nil {
			t.Fatalf("baseWeight=%s: expected validation error", w)
		}
	}
}
