package rules

import (
	"errors"
	"testing"

	"github.com/codesentinel/codesentinel/internal/types"
)

type stubRule struct {
	Meta
	findings []types.Finding
}

func (r stubRule) Apply(path, text string) ([]types.Finding, error) {
	return r.findings, nil
}

func validStub(id string) stubRule {
	return stubRule{Meta: Meta{RuleID: id, Desc: "stub rule", Sev: types.SevLow}}
}

func TestLoadSkipsInvalidRules(t *testing.T) {
	snapshot := resetForTest()
	defer restoreForTest(snapshot)

	Register("test-pack",
		validStub("GOOD_RULE"),
		stubRule{Meta: Meta{RuleID: "", Desc: "no id", Sev: types.SevLow}},
		stubRule{Meta: Meta{RuleID: "NO_DESC", Sev: types.SevLow}},
		stubRule{Meta: Meta{RuleID: "BAD_SEV", Desc: "bad severity", Sev: "urgent"}},
		stubRule{Meta: Meta{RuleID: "BAD_PREC", Desc: "bad precedence", Sev: types.SevLow, Prec: 101}},
	)

	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d rules, want 1", len(loaded))
	}
	if loaded[0].ID() != "GOOD_RULE" {
		t.Fatalf("loaded rule = %s", loaded[0].ID())
	}
}

func TestLoadZeroRulesIsFatal(t *testing.T) {
	snapshot := resetForTest()
	defer restoreForTest(snapshot)

	if _, err := Load(); !errors.Is(err, ErrNoRules) {
		t.Fatalf("err = %v, want ErrNoRules", err)
	}

	Register("broken", stubRule{Meta: Meta{RuleID: "", Desc: "x", Sev: types.SevLow}})
	if _, err := Load(); !errors.Is(err, ErrNoRules) {
		t.Fatalf("all-invalid pack: err = %v, want ErrNoRules", err)
	}
}

func TestValidatePrecedenceRange(t *testing.T) {
	for _, prec := range []int{0, 1, 65, 100} {
		r := stubRule{Meta: Meta{RuleID: "R", Desc: "d", Sev: types.SevLow, Prec: prec}}
		if err := Validate(r); err != nil {
			t.Errorf("precedence %d: unexpected error %v", prec, err)
		}
	}
	for _, prec := range []int{-1, 101, 1000} {
		r := stubRule{Meta: Meta{RuleID: "R", Desc: "d", Sev: types.SevLow, Prec: prec}}
		if err := Validate(r); err == nil {
			t.Errorf("precedence %d: expected error", prec)
		}
	}
	if err := Validate(nil); err == nil {
		t.Error("nil rule: expected error")
	}
}

func TestPacksSorted(t *testing.T) {
	snapshot := resetForTest()
	defer restoreForTest(snapshot)

	Register("zeta", validStub("Z"))
	Register("alpha", validStub("A"))
	packs := Packs()
	if len(packs) != 2 || packs[0] != "alpha" || packs[1] != "zeta" {
		t.Fatalf("packs = %v", packs)
	}
}

func TestMetaTagsCopies(t *testing.T) {
	m := Meta{BaseTags: []string{"a", "b"}}
	tags := m.Tags("c")
	tags[0] = "mutated"
	if m.BaseTags[0] != "a" {
		t.Fatal("Tags returned a shared slice")
	}
	if len(tags) != 3 || tags[2] != "c" {
		t.Fatalf("tags = %v", tags)
	}
}
