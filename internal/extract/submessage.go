package extract

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/intlextract/internal/message"
	"github.com/phobologic/intlextract/internal/parse"
)

// subCall is the analyzed shape of a plural/gender/select call: the
// selector, the case bodies in source order, and any named attributes.
type subCall struct {
	kind        message.Kind
	call        *sitter.Node
	mainArg     string
	mainIsIdent bool
	cases       []parse.NamedArg
	attrs       []parse.NamedArg
}

// analyzeSelectCall recognizes a select-family call and splits it into
// selector, cases and attributes. found distinguishes "not a recognizable
// call" from "recognized but invalid", which reports its own error.
func (s *Session) analyzeSelectCall(call *sitter.Node, source []byte, methods map[string]message.Kind) (*subCall, bool, error) {
	kind, ok := recognize(call, source, methods)
	if !ok || kind == message.Simple {
		return nil, false, nil
	}

	args := parse.CallArgs(call)
	if len(args) == 0 {
		return nil, true, fmt.Errorf("Intl.%s requires a main argument", kind)
	}

	sc := &subCall{kind: kind, call: call}
	switch parse.KindOf(args[0]) {
	case parse.KindIdentifier:
		sc.mainArg = parse.Text(args[0], source)
		sc.mainIsIdent = true
	case parse.KindString:
		sc.mainArg = parse.StringContent(args[0], source)
	default:
		return nil, true, fmt.Errorf("invalid main argument to Intl.%s, must be a simple variable reference or string literal", kind)
	}

	switch kind {
	case message.Select:
		// Cases are an explicit object so arbitrary case keys cannot
		// collide with attribute names; attributes come third.
		if len(args) < 2 || parse.KindOf(args[1]) != parse.KindObject {
			return nil, true, errors.New("Intl.select requires a case object as its second argument")
		}
		cases, ok := parse.ObjectEntries(args[1], source)
		if !ok {
			return nil, true, errors.New("the Intl.select case object must use plain literal keys")
		}
		sc.cases = cases
		if len(args) >= 3 {
			if parse.KindOf(args[2]) != parse.KindObject {
				return nil, true, errors.New("the Intl.select attribute argument must be an object literal")
			}
			attrs, ok := parse.ObjectEntries(args[2], source)
			if !ok {
				return nil, true, errors.New("the Intl.select attribute object must use plain literal keys")
			}
			sc.attrs = attrs
		}

	default: // plural, gender: fixed case keys share the options object
		if len(args) < 2 || parse.KindOf(args[1]) != parse.KindObject {
			return nil, true, fmt.Errorf("Intl.%s requires an options object as its second argument", kind)
		}
		entries, ok := parse.ObjectEntries(args[1], source)
		if !ok {
			return nil, true, fmt.Errorf("the Intl.%s options object must use plain literal keys", kind)
		}
		caseKeys := message.New(kind).CaseKeys()
		for _, e := range entries {
			if containsString(caseKeys, e.Key) {
				sc.cases = append(sc.cases, e)
			} else {
				sc.attrs = append(sc.attrs, e)
			}
		}
		if len(sc.cases) == 0 {
			return nil, true, fmt.Errorf("Intl.%s requires at least one case", kind)
		}
	}
	return sc, true, nil
}

// resolveSubMessage recognizes a nested select-family call inside an
// interpolation and builds its record, linked to the parent. Attribute
// objects on nested calls are accepted but a nested record never needs its
// own name.
func (s *Session) resolveSubMessage(expr *sitter.Node, parent *message.Message, params []string) (*message.Message, bool, error) {
	sc, found, err := s.analyzeSelectCall(expr, s.source, nestedMethods)
	if !found || err != nil {
		return nil, found, err
	}

	rec := message.New(sc.kind)
	rec.Parent = parent
	rec.Origin = s.Origin
	rec.Line, rec.Col = parse.Position(expr)
	rec.MainArg = sc.mainArg

	if _, _, err := s.applyAttributes(rec, sc.attrs); err != nil {
		return nil, true, err
	}
	if err := s.fillCases(rec, sc, params); err != nil {
		return nil, true, err
	}
	return rec, true, nil
}

// fillCases decomposes every case body. A failed case does not stop its
// siblings: all case-level diagnostics are accumulated before the record is
// abandoned.
func (s *Session) fillCases(rec *message.Message, sc *subCall, params []string) error {
	var errs []error
	for _, c := range sc.cases {
		pieces, err := s.decompose(c.Value, rec, params)
		if err != nil {
			errs = append(errs, fmt.Errorf("case %q: %w", c.Key, err))
			continue
		}
		rec.SetCase(c.Key, pieces)
	}
	return errors.Join(errs...)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
