// Package extract implements the message extraction engine: a declaration-
// aware descent over a parsed source unit that recognizes Intl.message,
// Intl.plural, Intl.gender and Intl.select calls and assembles them into
// message records.
package extract

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/intlextract/internal/message"
	"github.com/phobologic/intlextract/internal/parse"
)

// Config holds the extraction policy flags.
type Config struct {
	// SuppressWarnings gates warning emission through the callback; the
	// returned warning list is recorded regardless.
	SuppressWarnings bool
	// WarningsAreErrors only changes caller-visible severity; the engine
	// itself never aborts on a warning.
	WarningsAreErrors bool
	// AllowEmbeddedPluralGender permits a plural/gender/select expression
	// inside a larger literal instead of requiring it to be the sole
	// content of the string.
	AllowEmbeddedPluralGender bool
	RequireExamples           bool
	RequireDescription        bool
	// IncludeSourceText stores the original call text on each record.
	IncludeSourceText bool
	// GenerateNames derives missing name/args attributes from the
	// enclosing declaration instead of requiring them.
	GenerateNames bool
}

// Warning is one non-fatal extraction diagnostic.
type Warning struct {
	Origin string
	Line   int
	Col    int
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", w.Origin, w.Line, w.Col, w.Reason)
}

// Session is the per-unit extraction state. Sessions are not safe for
// concurrent use; callers processing files in parallel must use one
// session per file.
type Session struct {
	Origin   string
	Config   Config
	Warn     func(string)
	Warnings []Warning

	source  []byte
	results map[string]*message.Message
}

// NewSession creates a session for one source unit. warn may be nil.
func NewSession(origin string, cfg Config, warn func(string)) *Session {
	return &Session{Origin: origin, Config: cfg, Warn: warn}
}

// Extract drives one traversal over an already parsed tree and returns the
// name-keyed message records. Per-candidate failures become warnings and do
// not abort the pass.
func (s *Session) Extract(tree *sitter.Tree, source []byte) map[string]*message.Message {
	s.source = source
	s.results = make(map[string]*message.Message)
	s.visit(tree.RootNode(), declContext{})
	return s.results
}

// Extract is the convenience one-shot form of Session.Extract.
func Extract(tree *sitter.Tree, source []byte, origin string, cfg Config, warn func(string)) (map[string]*message.Message, []Warning) {
	s := NewSession(origin, cfg, warn)
	results := s.Extract(tree, source)
	return results, s.Warnings
}

// declContext is the declaration state visible to message calls: the
// innermost enclosing declaration's name and formal parameters. It is
// passed by value down the descent, never stacked; leaving a declaration
// restores nothing because only the immediate enclosing one matters.
type declContext struct {
	name           string
	hasName        bool
	params         []string
	hasParams      bool
	hasNamedParams bool
}

func contextFrom(info parse.DeclInfo) declContext {
	return declContext{
		name:           info.Name,
		hasName:        info.HasName,
		params:         info.Params,
		hasParams:      info.HasParams,
		hasNamedParams: info.HasNamedParams,
	}
}

func (s *Session) visit(n *sitter.Node, ctx declContext) {
	switch parse.KindOf(n) {
	case parse.KindFunctionDecl, parse.KindMethodDecl:
		info, _ := parse.Declaration(n, s.source)
		if body := n.ChildByFieldName("body"); body != nil {
			s.visit(body, contextFrom(info))
		}
		return

	case parse.KindFieldDecl:
		info, _ := parse.Declaration(n, s.source)
		if value := n.ChildByFieldName("value"); value != nil {
			s.visitDeclValue(value, contextFrom(info))
		}
		return

	case parse.KindVariableDecl:
		info, _ := parse.Declaration(n, s.source)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			d := n.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			if value := d.ChildByFieldName("value"); value != nil {
				s.visitDeclValue(value, contextFrom(info))
			}
		}
		return

	case parse.KindFunctionValue:
		// A function literal reached outside a declaration initializer:
		// message calls are supported only one declaration level deep, so
		// the context resets rather than nesting.
		if body := n.ChildByFieldName("body"); body != nil {
			s.visit(body, declContext{})
		}
		return

	case parse.KindCall:
		if kind, ok := recognize(n, s.source, topLevelMethods); ok {
			// Matching stops further descent whether or not extraction
			// succeeds, so nested select-family calls are not also counted
			// as top-level messages.
			s.extractCandidate(n, kind, ctx)
			return
		}
	}
	s.visitChildren(n, ctx)
}

// visitDeclValue visits a declaration initializer. The immediate function
// literal keeps the declaration context; any other value is traversed with
// the context as-is (direct Intl calls assigned to fields land here).
func (s *Session) visitDeclValue(value *sitter.Node, ctx declContext) {
	if parse.KindOf(value) == parse.KindFunctionValue {
		if body := value.ChildByFieldName("body"); body != nil {
			s.visit(body, ctx)
		}
		return
	}
	s.visit(value, ctx)
}

func (s *Session) visitChildren(n *sitter.Node, ctx declContext) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		s.visit(n.NamedChild(i), ctx)
	}
}

// extractCandidate extracts one matched call. This is the engine's failure
// isolation boundary: any error, including an internal panic, becomes a
// warning on this candidate and the traversal continues.
func (s *Session) extractCandidate(call *sitter.Node, kind message.Kind, ctx declContext) {
	defer func() {
		if r := recover(); r != nil {
			s.warnNode(call, fmt.Sprintf("skipping Intl.%s: internal error: %v", kind, r))
		}
	}()

	rec, err := s.extractMessage(call, kind, ctx)
	if err != nil {
		s.warnNode(call, fmt.Sprintf("skipping Intl.%s: %v", kind, err))
		return
	}
	s.store(rec, call)
}

// store inserts a record, reconciling duplicate names: identical canonical
// forms silently merge (first occurrence kept), differing forms keep the
// first and warn.
func (s *Session) store(rec *message.Message, call *sitter.Node) {
	if rec.Skip {
		// Extracted and validated, but intentionally left out of the result.
		return
	}
	existing, ok := s.results[rec.Name]
	if !ok {
		s.results[rec.Name] = rec
		return
	}
	if existing.CanonicalForm() == rec.CanonicalForm() {
		return
	}
	s.warnNode(call, fmt.Sprintf("duplicate message name %q with different content; keeping the first definition", rec.Name))
}

func (s *Session) warnNode(n *sitter.Node, reason string) {
	line, col := parse.Position(n)
	w := Warning{Origin: s.Origin, Line: line, Col: col, Reason: reason}
	s.Warnings = append(s.Warnings, w)
	if !s.Config.SuppressWarnings && s.Warn != nil {
		s.Warn(w.String())
	}
}
