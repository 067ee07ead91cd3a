// Package parsers holds the small structural parsers the rule packs consume:
// Dockerfile instructions, HCL blocks, YAML top-level keys, and JSON objects.
package parsers

import (
	"regexp"
	"strings"
)

// DockerInstruction is one logical Dockerfile instruction after comment
// stripping and backslash-continuation joining.
type DockerInstruction struct {
	Instruction string // upper-cased keyword, e.g. "ENV"
	Arguments   string
	Line        int // line of the first physical line of the instruction
}

var reDockerInstruction = regexp.MustCompile(`(?i)^([A-Z]+)\s+(.*)$`)

// ParseDockerfile splits content into instructions, skipping comments and
// blank lines and joining continuation lines.
func ParseDockerfile(content string) []DockerInstruction {
	var out []DockerInstruction
	pending := ""
	pendingLine := 0

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if pending != "" {
			pending += " " + trimmed
		} else {
			pending = trimmed
			pendingLine = i + 1
		}

		if strings.HasSuffix(pending, `\`) {
			pending = strings.TrimSpace(pending[:len(pending)-1])
			continue
		}

		if m := reDockerInstruction.FindStringSubmatch(pending); m != nil {
			out = append(out, DockerInstruction{
				Instruction: strings.ToUpper(m[1]),
				Arguments:   strings.TrimSpace(m[2]),
				Line:        pendingLine,
			})
		}
		pending = ""
		pendingLine = 0
	}
	return out
}
