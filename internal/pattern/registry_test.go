package pattern

import (
	"errors"
	"testing"
)

func TestAddCompilesCaseVariants(t *testing.T) {
	r := NewRegistry(nil)

	sensitive, err := r.Add("foo", true)
	if err != nil {
		t.Fatalf("add case-sensitive: %v", err)
	}
	insensitive, err := r.Add("foo", false)
	if err != nil {
		t.Fatalf("add case-insensitive: %v", err)
	}

	if !sensitive.MatchString("foo") || sensitive.MatchString("FOO") {
		t.Error("case-sensitive pattern should match foo but not FOO")
	}
	if !insensitive.MatchString("FOO") {
		t.Error("case-insensitive pattern should match FOO")
	}
}

func TestAddInvalidRegexLeavesRegistryUnchanged(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("error", true)
	before := r.List()
	version := r.Version()

	if _, err := r.Add("[invalid", true); err == nil {
		t.Fatal("expected compile error for [invalid")
	}

	after := r.List()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Errorf("registry changed after failed add: %v vs %v", before, after)
	}
	if r.Version() != version {
		t.Errorf("version bumped on failed add: %d vs %d", version, r.Version())
	}
}

func TestDeleteDoesNotRecolorSurvivors(t *testing.T) {
	r := NewRegistry([]string{"red", "green", "blue"})

	_, _ = r.Add("a", true)
	b, _ := r.Add("b", true)
	c, _ := r.Add("c", true)

	if c.Color != "blue" {
		t.Fatalf("expected third pattern blue, got %q", c.Color)
	}

	if err := r.Delete(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := r.Get(c.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.Color != "blue" {
		t.Errorf("survivor recolored after delete: %q", got.Color)
	}

	// Palette slots keep cycling; the deleted slot is not handed out again.
	d, _ := r.Add("d", true)
	if d.Color != "red" {
		t.Errorf("expected fourth creation to take the fourth slot (red), got %q", d.Color)
	}
}

func TestDeletedIDIsNotReused(t *testing.T) {
	r := NewRegistry(nil)
	a, _ := r.Add("a", true)
	r.Delete(a.ID)
	b, _ := r.Add("b", true)

	if b.ID == a.ID {
		t.Errorf("id %d reused after delete", a.ID)
	}
}

func TestMutatorsOnUnknownIDHaveNoEffect(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("a", true)
	version := r.Version()

	checks := map[string]error{
		"delete":  r.Delete(42),
		"case":    r.SetCaseSensitive(42, false),
		"enabled": r.SetEnabled(42, false),
		"source":  r.UpdateSource(42, "b"),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrUnknownPattern) {
			t.Errorf("%s: expected ErrUnknownPattern, got %v", name, err)
		}
	}
	if r.Version() != version {
		t.Errorf("version changed by failed mutators: %d vs %d", version, r.Version())
	}
}

func TestUpdateSourceValidatesBeforeCommit(t *testing.T) {
	r := NewRegistry(nil)
	p, _ := r.Add("good", true)

	if err := r.UpdateSource(p.ID, "[broken"); err == nil {
		t.Fatal("expected compile error")
	}

	got, _ := r.Get(p.ID)
	if got.Source != "good" {
		t.Errorf("source changed after failed update: %q", got.Source)
	}
	if !got.MatchString("good") {
		t.Error("compiled matcher no longer matches its source text")
	}
}

func TestSetCaseSensitiveRecompiles(t *testing.T) {
	r := NewRegistry(nil)
	p, _ := r.Add("warn", true)

	if err := r.SetCaseSensitive(p.ID, false); err != nil {
		t.Fatalf("toggle case: %v", err)
	}

	got, _ := r.Get(p.ID)
	if !got.MatchString("WARN") {
		t.Error("expected insensitive matcher after toggle")
	}
}

func TestVersionBumpsOnEveryMutation(t *testing.T) {
	r := NewRegistry(nil)
	last := r.Version()

	step := func(name string) {
		if r.Version() <= last {
			t.Errorf("%s did not bump version", name)
		}
		last = r.Version()
	}

	p, _ := r.Add("a", true)
	step("add")
	r.SetEnabled(p.ID, false)
	step("set enabled")
	r.SetCaseSensitive(p.ID, false)
	step("set case")
	r.UpdateSource(p.ID, "b")
	step("update source")
	r.Delete(p.ID)
	step("delete")
}

func TestListPreservesCreationOrder(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("one", true)
	r.Add("two", true)
	r.Add("three", true)

	list := r.List()
	want := []string{"one", "two", "three"}
	for i, p := range list {
		if p.Source != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], p.Source)
		}
	}
}
