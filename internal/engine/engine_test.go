package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesentinel/codesentinel/internal/rules"
	"github.com/codesentinel/codesentinel/internal/types"
)

type stubRule struct {
	rules.Meta
	apply func(path, text string) ([]types.Finding, error)
}

func (r stubRule) Apply(path, text string) ([]types.Finding, error) {
	return r.apply(path, text)
}

func onePerFile(id string, conf float64) stubRule {
	return stubRule{
		Meta: rules.Meta{RuleID: id, Desc: "stub", Sev: types.SevLow},
		apply: func(path, text string) ([]types.Finding, error) {
			return []types.Finding{{
				RuleID:     id,
				Path:       path,
				Line:       1,
				Severity:   types.SevLow,
				Excerpt:    text,
				Confidence: conf,
			}}, nil
		},
	}
}

func TestScanEmptyRulesetFatal(t *testing.T) {
	_, err := Scan(context.Background(), nil, []Input{{Path: "a", Text: "x"}}, Options{})
	require.ErrorIs(t, err, rules.ErrNoRules)
}

func TestScanNoInputs(t *testing.T) {
	out, err := Scan(context.Background(), []rules.Rule{onePerFile("R", 0.9)}, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestScanCollectsAcrossWorkers(t *testing.T) {
	var inputs []Input
	for i := 0; i < 24; i++ {
		inputs = append(inputs, Input{Path: fmt.Sprintf("file%02d.py", i), Text: "body"})
	}
	out, err := Scan(context.Background(), []rules.Rule{onePerFile("R", 0.9)}, inputs, Options{Workers: 4})
	require.NoError(t, err)
	require.Len(t, out, len(inputs))

	seen := map[string]bool{}
	for _, f := range out {
		seen[f.Path] = true
	}
	for _, in := range inputs {
		assert.True(t, seen[in.Path], "missing finding for %s", in.Path)
	}
}

func TestScanMinConfidenceFilter(t *testing.T) {
	r := stubRule{
		Meta: rules.Meta{RuleID: "R", Desc: "stub", Sev: types.SevLow},
		apply: func(path, text string) ([]types.Finding, error) {
			return []types.Finding{
				{RuleID: "R", Path: path, Line: 1, Excerpt: "weak", Confidence: 0.3},
				{RuleID: "R", Path: path, Line: 2, Excerpt: "strong", Confidence: 0.9},
			}, nil
		},
	}
	out, err := Scan(context.Background(), []rules.Rule{r}, []Input{{Path: "a.py"}}, Options{MinConfidence: 0.5})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Line)
}

func TestScanRuleErrorSkipsRuleNotFile(t *testing.T) {
	broken := stubRule{
		Meta: rules.Meta{RuleID: "BROKEN", Desc: "stub", Sev: types.SevLow},
		apply: func(path, text string) ([]types.Finding, error) {
			return nil, errors.New("regex exploded")
		},
	}
	out, err := Scan(context.Background(), []rules.Rule{broken, onePerFile("GOOD", 0.9)}, []Input{{Path: "a.py", Text: "x"}}, Options{})
	require.NoError(t, err, "one failing rule must not fail the scan")
	require.Len(t, out, 1)
	assert.Equal(t, "GOOD", out[0].RuleID)
}

func TestScanDeduplicatesAcrossRules(t *testing.T) {
	emit := func(id string, conf float64) stubRule {
		return stubRule{
			Meta: rules.Meta{RuleID: id, Desc: "stub", Sev: types.SevLow},
			apply: func(path, text string) ([]types.Finding, error) {
				return []types.Finding{{RuleID: id, Path: path, Line: 4, Excerpt: "same excerpt", Confidence: conf}}, nil
			},
		}
	}
	ruleset := []rules.Rule{
		emit("SECRET_HIGH_ENTROPY", 0.8),
		emit("SECRET_AWS_ACCESS_KEY", 0.95),
	}
	out, err := Scan(context.Background(), ruleset, []Input{{Path: "a.py"}}, Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SECRET_AWS_ACCESS_KEY", out[0].RuleID)
}

func TestScanCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var inputs []Input
	for i := 0; i < 512; i++ {
		inputs = append(inputs, Input{Path: fmt.Sprintf("f%d", i), Text: "x"})
	}
	out, err := Scan(ctx, []rules.Rule{onePerFile("R", 0.9)}, inputs, Options{Workers: 1})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out, "partial results are discarded on cancellation")
}
