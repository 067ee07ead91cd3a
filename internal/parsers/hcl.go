package parsers

import (
	"regexp"
	"strings"
)

// HCLBlock is a top-level HCL block with its starting line.
type HCLBlock struct {
	Content string
	Line    int
}

// FindHCLBlocks collects top-level blocks of the given type (and optional
// first label) by brace counting. This intentionally stays line-oriented so
// block start lines survive into findings.
func FindHCLBlocks(content, blockType, blockName string) []HCLBlock {
	var header *regexp.Regexp
	if blockName != "" {
		header = regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(blockType) + `\s+"` + regexp.QuoteMeta(blockName) + `"\s+"[^"]*"\s*\{`)
	} else {
		header = regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(blockType) + `\s+"[^"]*"\s*(?:"[^"]*")?\s*\{`)
	}

	var blocks []HCLBlock
	lines := strings.Split(content, "\n")
	collecting := false
	depth := 0
	var blockLines []string
	startLine := 0

	for i, line := range lines {
		if !collecting {
			if header.MatchString(line) {
				collecting = true
				depth = strings.Count(line, "{") - strings.Count(line, "}")
				blockLines = []string{line}
				startLine = i + 1
				if depth <= 0 {
					blocks = append(blocks, HCLBlock{Content: strings.Join(blockLines, "\n"), Line: startLine})
					collecting = false
				}
			}
			continue
		}

		blockLines = append(blockLines, line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			blocks = append(blocks, HCLBlock{Content: strings.Join(blockLines, "\n"), Line: startLine})
			collecting = false
		}
	}
	return blocks
}
