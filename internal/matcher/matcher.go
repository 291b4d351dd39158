// Package matcher recognizes service-call and route-registration idioms in
// an AST node's source text. Each matcher is a narrow capability — no
// inheritance, no shared base type — that inspects one node in isolation and
// reports zero or more Records. The extractor walks the tree and hands every
// qualifying node to the full matcher list for its language, in stable
// declared order; matchers never walk children themselves.
package matcher

import (
	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/types"
)

// Matcher recognizes one call or route idiom from a single AST node's text.
type Matcher interface {
	Match(n *matchnode.Node, src []byte) []types.Record
}

// registry maps a language to the ordered list of matchers that run over it.
var registry = map[lang.Language][]Matcher{}

// Register appends a matcher to the list run for the given languages.
func Register(m Matcher, languages ...lang.Language) {
	for _, l := range languages {
		registry[l] = append(registry[l], m)
	}
}

// ForLanguage returns the matcher list registered for a language, in the
// stable order they were registered.
func ForLanguage(l lang.Language) []Matcher {
	return registry[l]
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(n *matchnode.Node, src []byte) []types.Record

// Match implements Matcher.
func (f MatcherFunc) Match(n *matchnode.Node, src []byte) []types.Record {
	return f(n, src)
}
