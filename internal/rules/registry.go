package rules

import (
	"errors"
	"sort"
	"sync"

	"github.com/codesentinel/codesentinel/internal/log"
)

// ErrNoRules is the orchestrator's single fatal load condition: a scan with
// zero usable rules cannot produce a meaningful empty result.
var ErrNoRules = errors.New("no rules were successfully loaded")

var (
	regMu    sync.Mutex
	registry = map[string][]Rule{}
)

// Register adds a pack's rules to the global registry. Packs call this from
// init; the blank-import aggregate in rules/all pulls every pack in.
func Register(pack string, rs ...Rule) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[pack] = append(registry[pack], rs...)
}

// Packs returns the registered pack names, sorted.
func Packs() []string {
	regMu.Lock()
	defer regMu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PackRules returns the rules registered under one pack name.
func PackRules(pack string) []Rule {
	regMu.Lock()
	defer regMu.Unlock()
	out := make([]Rule, len(registry[pack]))
	copy(out, registry[pack])
	return out
}

// Load validates every registered rule and returns the usable set, keyed in
// deterministic pack order. Invalid rules are logged and skipped; the only
// error is ErrNoRules when nothing validates.
func Load() ([]Rule, error) {
	regMu.Lock()
	defer regMu.Unlock()

	packs := make([]string, 0, len(registry))
	for name := range registry {
		packs = append(packs, name)
	}
	sort.Strings(packs)

	var loaded []Rule
	for _, pack := range packs {
		valid := 0
		for _, r := range registry[pack] {
			if err := Validate(r); err != nil {
				log.Warnf("rules: skipping invalid rule in pack %q: %v", pack, err)
				continue
			}
			loaded = append(loaded, r)
			valid++
		}
		log.Debugf("rules: loaded %d rules from pack %q", valid, pack)
	}
	if len(loaded) == 0 {
		return nil, ErrNoRules
	}
	return loaded, nil
}

// Validate enforces the rule contract: non-empty id and description, a known
// severity (case-insensitive via ParseSeverity at construction), and a
// precedence of 0 (band fallback) or 1..100.
func Validate(r Rule) error {
	if r == nil {
		return errors.New("nil rule")
	}
	if r.ID() == "" {
		return errors.New("rule has empty id")
	}
	if r.Description() == "" {
		return errors.New("rule " + r.ID() + " has empty description")
	}
	if !r.Severity().Valid() {
		return errors.New("rule " + r.ID() + " has invalid severity " + string(r.Severity()))
	}
	if p := r.Precedence(); p != 0 && (p < 1 || p > 100) {
		return errors.New("rule " + r.ID() + " has precedence outside 1..100")
	}
	return nil
}

// resetForTest clears the registry; used only by registry tests.
func resetForTest() map[string][]Rule {
	regMu.Lock()
	defer regMu.Unlock()
	old := registry
	registry = map[string][]Rule{}
	return old
}

// restoreForTest reinstates a registry snapshot taken by resetForTest.
func restoreForTest(snapshot map[string][]Rule) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = snapshot
}
