// File path: internal/hip/category_test.go
package hip

import "testing"

func TestInferCategoryByTypeHint(t *testing.T) {
	if c := inferCategory("pyrosolver::2.0", "obj/geo1/pyro_solver1"); c != CategoryDOP {
		t.Errorf("expected DOP, got %s", c)
	}
}

func TestInferCategoryByPathHint(t *testing.T) {
	if c := inferCategory("scatter", "obj/sopnet1/sop/scatter1"); c != CategorySOP {
		t.Errorf("expected SOP, got %s", c)
	}
	if c := inferCategory("null", "obj/chopnet1/chop/null1"); c != CategoryCHOP {
		t.Errorf("expected CHOP, got %s", c)
	}
}

func TestInferCategoryDefaultsToSOP(t *testing.T) {
	if c := inferCategory("box", "unrelated/path"); c != CategorySOP {
		t.Errorf("expected default SOP, got %s", c)
	}
}
