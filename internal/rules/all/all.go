// Package all registers every built-in rule pack. Importing it for side
// effects is how callers opt in to the full rule set:
//
//	import _ "github.com/codesentinel/codesentinel/internal/rules/all"
package all

import (
	_ "github.com/codesentinel/codesentinel/internal/rules/configs"
	_ "github.com/codesentinel/codesentinel/internal/rules/docker"
	_ "github.com/codesentinel/codesentinel/internal/rules/ghactions"
	_ "github.com/codesentinel/codesentinel/internal/rules/jssupply"
	_ "github.com/codesentinel/codesentinel/internal/rules/secrets"
	_ "github.com/codesentinel/codesentinel/internal/rules/terraform"
)
