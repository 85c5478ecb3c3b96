// File path: internal/hip/category.go
package hip

import "strings"

var dopTypeHints = []string{"pyro", "flip", "rbd", "vellum", "solver", "gas", "bullet"}

var pathCategoryHints = []struct {
	needles []string
	category Category
}{
	{[]string{"/dop/", "dopnet"}, CategoryDOP},
	{[]string{"/sop/"}, CategorySOP},
	{[]string{"/vop/"}, CategoryVOP},
	{[]string{"/chop/"}, CategoryCHOP},
	{[]string{"/cop/"}, CategoryCOP},
	{[]string{"/rop/"}, CategoryROP},
	{[]string{"/lop/"}, CategoryLOP},
	{[]string{"/top/"}, CategoryTOP},
	{[]string{"/obj/"}, CategoryOBJ},
}

// inferCategory picks the closed-set category for a node type observed in a
// given entry filename, following the first-rule-wins order from the
// stanza grammar: type-name hints beat path hints beat the SOP default.
func inferCategory(nodeType, filename string) Category {
	lowerType := strings.ToLower(nodeType)
	for _, hint := range dopTypeHints {
		if strings.Contains(lowerType, hint) {
			return CategoryDOP
		}
	}
	lowerFile := strings.ToLower(filename)
	for _, rule := range pathCategoryHints {
		for _, needle := range rule.needles {
			if strings.Contains(lowerFile, needle) {
				return rule.category
			}
		}
	}
	return CategorySOP
}
