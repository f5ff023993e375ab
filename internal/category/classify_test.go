package category

import (
	"testing"

	"github.com/rickgao/bazaarsetu/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want model.Category
	}{
		{"Chicken Leg Piece", model.CategoryPoultry},
		{"Tomato", model.CategoryVegetable},
		{"Xyzabc", model.CategoryVegetable},
		{"", model.CategoryVegetable},
		{"BROILER CHICKEN", model.CategoryPoultry},
		{"Country Eggs", model.CategoryPoultry},
		{"Duck Eggs", model.CategoryPoultry},
		{"Chicken Curry Cut", model.CategoryPoultry},
		{"Curry Leaves", model.CategoryLeafy},
		{"Spinach", model.CategoryLeafy},
		{"Methi", model.CategoryLeafy},
		{"Garlic", model.CategorySpice},
		{"Ginger", model.CategorySpice},
		{"Lemon", model.CategoryFruit},
		{"Tender Coconut", model.CategoryFruit},
		{"Eggplant", model.CategoryPoultry}, // First match wins, by definition.
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyAlwaysValid(t *testing.T) {
	names := []string{"", " ", "ČŠŽ", "123", "chicken", "Ω mint Ω"}
	for _, n := range names {
		if c := Classify(n); !c.Valid() {
			t.Errorf("Classify(%q) = %q, not a valid category", n, c)
		}
	}
}

func TestOf(t *testing.T) {
	fruit := model.CategoryFruit
	bogus := model.Category("meat")

	tests := []struct {
		name   string
		record model.PriceRecord
		want   model.Category
	}{
		{"explicit wins", model.PriceRecord{CommodityName: "Chicken", Category: &fruit}, model.CategoryFruit},
		{"absent is classified", model.PriceRecord{CommodityName: "Chicken"}, model.CategoryPoultry},
		{"invalid is classified", model.PriceRecord{CommodityName: "Onion", Category: &bogus}, model.CategoryVegetable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.record); got != tt.want {
				t.Errorf("Of() = %q, want %q", got, tt.want)
			}
		})
	}

	r := model.PriceRecord{CommodityName: "Chicken"}
	Of(r)
	if r.Category != nil {
		t.Error("Of() must not write the category back")
	}
}
