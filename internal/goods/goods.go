// Package goods defines the closed sets of ingredients and pastries and the
// fixed recipe table that maps one to the other.
package goods

import "fmt"

// Ingredient identifies one of the five pantry ingredient kinds.
type Ingredient uint8

const (
	Flour Ingredient = iota
	Sugar
	Butter
	Strawberries
	Chocolate
)

// Ingredients lists every ingredient kind in declaration order. Pantry maps
// are expected to carry all of these keys, zero-valued when empty.
var Ingredients = [...]Ingredient{Flour, Sugar, Butter, Strawberries, Chocolate}

var ingredientNames = [...]string{"flour", "sugar", "butter", "strawberries", "chocolate"}

func (i Ingredient) String() string {
	if int(i) < len(ingredientNames) {
		return ingredientNames[i]
	}
	return fmt.Sprintf("ingredient#%d", i)
}

// MarshalText encodes the ingredient by name so enum-keyed maps serialize
// with readable keys.
func (i Ingredient) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes an ingredient from its name.
func (i *Ingredient) UnmarshalText(text []byte) error {
	for idx, name := range ingredientNames {
		if name == string(text) {
			*i = Ingredient(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown ingredient %q", text)
}

// Pastry identifies a bakeable product.
type Pastry uint8

const (
	Bread Pastry = iota
	Croissant
	StrawberryTart
	ChocolateCake
)

// Pastries lists every pastry kind in declaration order.
var Pastries = [...]Pastry{Bread, Croissant, StrawberryTart, ChocolateCake}

var pastryNames = [...]string{"bread", "croissant", "strawberry tart", "chocolate cake"}

func (p Pastry) String() string {
	if int(p) < len(pastryNames) {
		return pastryNames[p]
	}
	return fmt.Sprintf("pastry#%d", p)
}

func (p Pastry) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pastry) UnmarshalText(text []byte) error {
	for idx, name := range pastryNames {
		if name == string(text) {
			*p = Pastry(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown pastry %q", text)
}

// ParsePastry resolves a pastry by its display name.
func ParsePastry(name string) (Pastry, error) {
	var p Pastry
	if err := p.UnmarshalText([]byte(name)); err != nil {
		return 0, err
	}
	return p, nil
}

// Recipe is the fixed ingredient cost to produce one unit of a pastry.
type Recipe map[Ingredient]int

// Recipes holds the production cost for every pastry. Consulted read-only.
var Recipes = map[Pastry]Recipe{
	Bread:          {Flour: 3, Sugar: 1},
	Croissant:      {Flour: 2, Butter: 2},
	StrawberryTart: {Flour: 1, Sugar: 2, Strawberries: 3},
	ChocolateCake:  {Flour: 2, Sugar: 2, Chocolate: 3},
}
