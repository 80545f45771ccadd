package meta

import (
	"testing"
)

func TestClassifyPrimitives(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"nil", Nil},
		{"true", FromBool(true)},
		{"false", FromBool(false)},
		{"int", FromInt(0)},
		{"float", FromFloat(3.25)},
		{"string", FromString("")},
		{"callable", FromCallable(&Callable{})},
		{"context", FromContext(&Context{})},
	}

	for _, tt := range tests {
		if got := Classify(tt.v); got != ClassPrimitive {
			t.Errorf("Classify(%s) = %v, want Primitive", tt.name, got)
		}
	}
}

func TestClassifyTables(t *testing.T) {
	dense := NewSequence(FromInt(1), FromInt(2), FromInt(3))

	sparse := NewTable()
	sparse.Set(FromInt(1), FromString("a"))
	sparse.Set(FromInt(3), FromString("c"))

	mixed := NewSequence(FromInt(1), FromInt(2))
	mixed.Set(FromString("name"), FromString("x"))

	keyed := NewTable()
	keyed.Set(FromString("x"), FromInt(1))

	tests := []struct {
		name string
		tab  *Table
		want Class
	}{
		{"dense", dense, ClassSequence},
		{"empty", NewTable(), ClassSequence},
		{"sparse", sparse, ClassMapping},
		{"dense plus named key", mixed, ClassMapping},
		{"keyed only", keyed, ClassMapping},
	}

	for _, tt := range tests {
		if got := Classify(tt.tab.Value()); got != tt.want {
			t.Errorf("Classify(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassStrings(t *testing.T) {
	if ClassPrimitive.String() != "Primitive" ||
		ClassSequence.String() != "Sequence" ||
		ClassMapping.String() != "Mapping" {
		t.Error("Class.String() names are wrong")
	}
}
