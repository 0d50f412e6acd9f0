package extract

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/intlextract/internal/message"
	"github.com/phobologic/intlextract/internal/parse"
)

// decompose turns one string-like expression into an ordered piece list:
// literal text segments, zero-based argument references resolved against
// params, and nested select-family sub-messages. owner is the record the
// pieces belong to; nested records take it as their parent.
func (s *Session) decompose(expr *sitter.Node, owner *message.Message, params []string) ([]message.Piece, error) {
	pieces, err := s.decomposeExpr(expr, owner, params)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmbedding(pieces); err != nil {
		return nil, err
	}
	return pieces, nil
}

func (s *Session) decomposeExpr(expr *sitter.Node, owner *message.Message, params []string) ([]message.Piece, error) {
	switch parse.KindOf(expr) {
	case parse.KindString:
		// Empty segments are still appended; a no-op for concatenation but
		// kept for fidelity.
		return []message.Piece{message.Literal(parse.StringContent(expr, s.source))}, nil

	case parse.KindTemplateString:
		var pieces []message.Piece
		for _, part := range parse.TemplateParts(expr, s.source) {
			if part.Expr == nil {
				pieces = append(pieces, message.Literal(part.Text))
				continue
			}
			piece, err := s.decomposeSubstitution(part.Expr, owner, params)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, piece)
		}
		return pieces, nil

	case parse.KindBinary:
		op := expr.ChildByFieldName("operator")
		left, right := expr.ChildByFieldName("left"), expr.ChildByFieldName("right")
		if op == nil || op.Type() != "+" || left == nil || right == nil {
			return nil, errors.New("a message must be a string literal, template, or concatenation of them")
		}
		lp, err := s.decomposeExpr(left, owner, params)
		if err != nil {
			return nil, err
		}
		rp, err := s.decomposeExpr(right, owner, params)
		if err != nil {
			return nil, err
		}
		return append(lp, rp...), nil

	case parse.KindParen:
		inner := expr.NamedChild(0)
		if inner == nil {
			return nil, errors.New("empty parenthesized expression in message")
		}
		return s.decomposeExpr(inner, owner, params)

	case parse.KindCall:
		// A case body may itself be a direct select-family call, chaining
		// parent references.
		sub, found, err := s.resolveSubMessage(expr, owner, params)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.New("a message must be a string literal, template, or concatenation of them")
		}
		return []message.Piece{sub}, nil
	}
	return nil, errors.New("a message must be a string literal, template, or concatenation of them")
}

// decomposeSubstitution handles one ${...} interpolation: a simple
// identifier resolves to its position in the tracked parameter list; any
// other expression must be a nested plural/gender/select call.
func (s *Session) decomposeSubstitution(expr *sitter.Node, owner *message.Message, params []string) (message.Piece, error) {
	if parse.KindOf(expr) == parse.KindIdentifier {
		name := parse.Text(expr, s.source)
		for i, p := range params {
			if p == name {
				return message.ArgIndex(i), nil
			}
		}
		return nil, fmt.Errorf("argument %q not found in the parameter list", name)
	}

	sub, found, err := s.resolveSubMessage(expr, owner, params)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("only simple identifiers and Intl.plural/gender/select expressions are allowed in string interpolation")
	}
	return sub, nil
}

// checkEmbedding enforces the top-level policy: a plural/gender/select
// sub-message may not share the string with non-empty literal text unless
// embedding is explicitly allowed.
func (s *Session) checkEmbedding(pieces []message.Piece) error {
	if s.Config.AllowEmbeddedPluralGender {
		return nil
	}
	if message.HasSubMessage(pieces) && message.HasNonEmptyLiteral(pieces) {
		return errors.New("plural, gender and select expressions must be at the top level, not embedded in a larger string")
	}
	return nil
}
