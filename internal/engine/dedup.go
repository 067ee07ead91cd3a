package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/codesentinel/codesentinel/internal/log"
	"github.com/codesentinel/codesentinel/internal/types"
)

// groupKey identifies a deduplication group: same path, same line (0 when the
// finding is not line-addressable), same whitespace-normalized excerpt. The
// key is an xxhash over the three components with NUL separators, which keeps
// the map key fixed-size regardless of excerpt length.
func groupKey(f types.Finding) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(f.Path)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(strconv.Itoa(f.Line))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(normalizeExcerpt(f.Excerpt))
	return d.Sum64()
}

// normalizeExcerpt collapses whitespace runs to single spaces and trims, so
// formatting differences between rules never split a group.
func normalizeExcerpt(excerpt string) string {
	return strings.Join(strings.Fields(excerpt), " ")
}

// Deduplicate collapses findings describing the same location into one
// winner each. The winner is the group maximum by (resolved precedence,
// confidence) with the alphabetically first rule id breaking exact ties.
// Group output order follows first appearance in the input, which makes the
// operation deterministic and idempotent.
func Deduplicate(findings []types.Finding) []types.Finding {
	if len(findings) == 0 {
		return nil
	}

	groups := make(map[uint64][]types.Finding)
	var order []uint64
	for _, f := range findings {
		key := groupKey(f)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	out := make([]types.Finding, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) > 1 {
			sortGroup(group)
			log.Debugf("engine: deduplicated %d findings at %s:%d, keeping %s",
				len(group), group[0].Path, group[0].Line, group[0].RuleID)
		}
		out = append(out, group[0])
	}
	if len(out) < len(findings) {
		log.Infof("engine: deduplication reduced %d findings to %d", len(findings), len(out))
	}
	return out
}

// sortGroup orders a group best-first: precedence descending, confidence
// descending, rule id ascending.
func sortGroup(group []types.Finding) {
	sort.SliceStable(group, func(i, j int) bool {
		pi, pj := ResolvePrecedence(group[i]), ResolvePrecedence(group[j])
		if pi != pj {
			return pi > pj
		}
		if group[i].Confidence != group[j].Confidence {
			return group[i].Confidence > group[j].Confidence
		}
		return group[i].RuleID < group[j].RuleID
	})
}
