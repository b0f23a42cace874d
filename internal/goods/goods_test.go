package goods

import "testing"

func TestEveryPastryHasARecipe(t *testing.T) {
	for _, p := range Pastries {
		recipe, ok := Recipes[p]
		if !ok || len(recipe) == 0 {
			t.Fatalf("pastry %s has no recipe", p)
		}
		if recipe[Flour] == 0 {
			t.Fatalf("every recipe uses flour; %s does not", p)
		}
	}
}

func TestParsePastryRoundTrip(t *testing.T) {
	for _, p := range Pastries {
		got, err := ParsePastry(p.String())
		if err != nil {
			t.Fatalf("parse %q: %v", p, err)
		}
		if got != p {
			t.Fatalf("round trip %q: got %v", p, got)
		}
	}
	if _, err := ParsePastry("baguette"); err == nil {
		t.Fatalf("expected error for unknown pastry")
	}
}

func TestIngredientTextMarshaling(t *testing.T) {
	for _, ing := range Ingredients {
		text, err := ing.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", ing, err)
		}
		var back Ingredient
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %v", text, err)
		}
		if back != ing {
			t.Fatalf("round trip %q: got %v", text, back)
		}
	}
}
