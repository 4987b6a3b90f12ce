package matcher

import (
	"strings"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"mvdan.cc/sh/v3/syntax"
)

// astMatches flags structural risk shapes a regex line misses — redirection,
// subshells, command substitution, and pipelines — by parsing part as shell
// syntax and walking the resulting tree. Grounded on the same
// mvdan.cc/sh/v3/syntax walk used by the pack's AST-based command assessor.
// A part that fails to parse as shell syntax (e.g. it is not actually shell
// at all) raises no AST matches; it is still covered by the regex pass.
func astMatches(part string, cat *catalog.Catalog) []Match {
	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(part), "")
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var matches []Match

	add := func(id string) {
		if seen[id] {
			return
		}
		check, ok := cat.ByID(id)
		if !ok {
			return
		}
		seen[id] = true
		matches = append(matches, Match{Check: check})
	}

	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Redirect:
			add("shell:redirection")
		case *syntax.Subshell:
			add("shell:subshell")
		case *syntax.CmdSubst:
			add("shell:command_substitution")
		case *syntax.BinaryCmd:
			if strings.Contains(n.Op.String(), "|") {
				add("shell:pipeline")
			}
		}
		return true
	})

	return matches
}
