package metric

import (
	"context"
	"reflect"
	"testing"
)

type fakeMetric struct {
	id string
}

func (f fakeMetric) ID() string { return f.id }

func (f fakeMetric) Execute(_ context.Context, _ *Input) ([]Measure, error) {
	return []Measure{Num(1)}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(fakeMetric{id: "alpha"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	m, ok := r.Get("alpha")
	if !ok {
		t.Fatalf("Registered metric not found")
	}
	if m.ID() != "alpha" {
		t.Errorf("Wrong metric returned: %s", m.ID())
	}

	if _, ok := r.Get("missing"); ok {
		t.Errorf("Lookup of unknown ID should fail")
	}
}

func TestRegistry_DuplicateIsError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(fakeMetric{id: "alpha"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(fakeMetric{id: "alpha"}); err == nil {
		t.Errorf("Duplicate registration should fail")
	}
}

func TestRegistry_IDsSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(fakeMetric{id: "zeta"}, fakeMetric{id: "alpha"}, fakeMetric{id: "mid"})

	want := []string{"alpha", "mid", "zeta"}
	if got := r.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestGUIType(t *testing.T) {
	if !Desktop.Valid() || !Mobile.Valid() {
		t.Errorf("Known GUI types should be valid")
	}
	if GUIType(7).Valid() {
		t.Errorf("Unknown GUI type should be invalid")
	}
	if Desktop.String() != "desktop" || Mobile.String() != "mobile" {
		t.Errorf("Unexpected GUI type names: %s, %s", Desktop, Mobile)
	}
}
