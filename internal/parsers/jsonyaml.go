package parsers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseJSONObject parses content as a JSON object. Nil on any parse failure
// or when the document is not an object.
func ParseJSONObject(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil
	}
	return obj
}

// LoadYAMLMapping parses content as YAML and returns the top-level mapping,
// or nil when the document is malformed or not a mapping.
func LoadYAMLMapping(content string) map[string]any {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}
	return doc
}

// YAMLKeyValue reads a scalar top-level YAML key and the line it appears on.
// Mapping and sequence values are not returned.
func YAMLKeyValue(content, key string) (value string, line int, ok bool) {
	doc := LoadYAMLMapping(content)
	if doc == nil {
		return "", 0, false
	}
	raw, present := doc[key]
	if !present {
		return "", 0, false
	}
	switch raw.(type) {
	case map[string]any, []any:
		return "", 0, false
	}
	return strings.TrimSpace(fmt.Sprint(raw)), yamlKeyLine(content, key), true
}

func yamlKeyLine(content, key string) int {
	re := regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(key) + `\s*:`)
	for i, line := range strings.Split(content, "\n") {
		if re.MatchString(line) {
			return i + 1
		}
	}
	return 1
}
