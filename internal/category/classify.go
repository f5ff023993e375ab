// Package category infers a commodity's category from its name.
package category

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/rickgao/bazaarsetu/internal/model"
)

// Fallback is returned when no rule matches.
const Fallback = model.CategoryVegetable

// rule maps a name keyword to a category.
type rule struct {
	keyword  string
	category model.Category
}

// rules are checked in order; the first keyword found in the name wins.
// Poultry must stay first so "Chicken Curry Cut" is not read as a leafy "curry".
var rules = []rule{
	{"chicken", model.CategoryPoultry},
	{"broiler", model.CategoryPoultry},
	{"egg", model.CategoryPoultry},
	{"duck", model.CategoryPoultry},

	{"spinach", model.CategoryLeafy},
	{"palak", model.CategoryLeafy},
	{"methi", model.CategoryLeafy},
	{"coriander", model.CategoryLeafy},
	{"curry leaves", model.CategoryLeafy},
	{"mint", model.CategoryLeafy},

	{"ginger", model.CategorySpice},
	{"garlic", model.CategorySpice},

	{"lemon", model.CategoryFruit},
	{"banana", model.CategoryFruit},
	{"coconut", model.CategoryFruit},
}

// Classify returns the category implied by a commodity name.
// It never fails and always returns a valid record category.
func Classify(name string) model.Category {
	// Casers carry state and are not safe to share between goroutines.
	n := cases.Fold().String(name)
	for _, r := range rules {
		if strings.Contains(n, r.keyword) {
			return r.category
		}
	}
	return Fallback
}

// Of returns the record's explicit category when valid, else the classified one.
// The record itself is not modified.
func Of(p model.PriceRecord) model.Category {
	if p.Category != nil && p.Category.Valid() {
		return *p.Category
	}
	return Classify(p.CommodityName)
}
