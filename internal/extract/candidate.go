package extract

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/intlextract/internal/message"
	"github.com/phobologic/intlextract/internal/parse"
)

// topLevelMethods are the call names recognized during the main descent;
// nestedMethods are the subset usable inside string interpolation.
var topLevelMethods = map[string]message.Kind{
	"message": message.Simple,
	"plural":  message.Plural,
	"gender":  message.Gender,
	"select":  message.Select,
}

var nestedMethods = map[string]message.Kind{
	"plural": message.Plural,
	"gender": message.Gender,
	"select": message.Select,
}

// recognize decides whether a call expression is a message call: the method
// name must be one of the expected set and the receiver must resolve to the
// Intl identifier, bare or prefixed-qualified.
func recognize(call *sitter.Node, source []byte, methods map[string]message.Kind) (message.Kind, bool) {
	target, method := parse.CallParts(call, source)
	kind, ok := methods[method]
	if !ok {
		return "", false
	}
	if !parse.TargetsIntl(target, source) {
		return "", false
	}
	return kind, true
}

// extractMessage runs the validity gate and builds a record for one matched
// call.
func (s *Session) extractMessage(call *sitter.Node, kind message.Kind, ctx declContext) (*message.Message, error) {
	if !ctx.hasName {
		return nil, errors.New("calls must be inside a function, method, field or single-variable declaration")
	}
	if ctx.hasNamedParams {
		return nil, errors.New("message functions must use only positional parameters")
	}

	var rec *message.Message
	var err error
	if kind == message.Simple {
		rec, err = s.simpleMessage(call, ctx)
	} else {
		rec, err = s.directCall(call, kind, ctx)
	}
	if err != nil {
		return nil, err
	}

	if s.Config.IncludeSourceText {
		rec.SourceText = parse.Text(call, s.source)
	}
	if err := rec.Validate(s.Config.RequireExamples, s.Config.RequireDescription); err != nil {
		return nil, err
	}
	return rec, nil
}

// simpleMessage builds a record for an Intl.message call: one string-like
// positional argument plus an optional trailing attribute object.
func (s *Session) simpleMessage(call *sitter.Node, ctx declContext) (*message.Message, error) {
	args := parse.CallArgs(call)
	if len(args) == 0 {
		return nil, errors.New("a message string is required")
	}

	rec := message.New(message.Simple)
	rec.Origin = s.Origin
	rec.Line, rec.Col = parse.Position(call)

	positional := args
	var explicitArgs []string
	hasArgs := false
	if last := args[len(args)-1]; len(args) > 1 && parse.KindOf(last) == parse.KindObject {
		entries, ok := parse.ObjectEntries(last, s.source)
		if !ok {
			return nil, errors.New("the attribute object must use plain literal keys")
		}
		var err error
		explicitArgs, hasArgs, err = s.applyAttributes(rec, entries)
		if err != nil {
			return nil, err
		}
		positional = args[:len(args)-1]
	}
	if len(positional) != 1 {
		return nil, errors.New("expected a single message string")
	}

	if err := reconcileArguments(rec, ctx, explicitArgs, hasArgs, s.Config.GenerateNames); err != nil {
		return nil, err
	}
	s.fillName(rec, ctx)

	pieces, err := s.decompose(positional[0], rec, rec.Arguments)
	if err != nil {
		return nil, err
	}
	rec.Pieces = pieces
	return rec, nil
}

// directCall builds a record for a top-level Intl.plural/gender/select call
// assigned to a declaration.
func (s *Session) directCall(call *sitter.Node, kind message.Kind, ctx declContext) (*message.Message, error) {
	sc, _, err := s.analyzeSelectCall(call, s.source, topLevelMethods)
	if err != nil {
		return nil, err
	}

	rec := message.New(kind)
	rec.Origin = s.Origin
	rec.Line, rec.Col = parse.Position(call)
	rec.MainArg = sc.mainArg

	explicitArgs, hasArgs, err := s.applyAttributes(rec, sc.attrs)
	if err != nil {
		return nil, err
	}
	if err := reconcileArguments(rec, ctx, explicitArgs, hasArgs, s.Config.GenerateNames); err != nil {
		return nil, err
	}
	if len(rec.Arguments) == 0 && sc.mainIsIdent {
		// A field or variable declaration carries no parameter list, so the
		// selector identifier becomes the implicit sole argument.
		rec.Arguments = []string{sc.mainArg}
	}
	s.fillName(rec, ctx)

	if err := s.fillCases(rec, sc, rec.Arguments); err != nil {
		return nil, err
	}
	return rec, nil
}

// fillName resolves the record's final name: an explicit name attribute
// wins; in generate-names mode the enclosing declaration name (with the
// meaning suffix) is used instead.
func (s *Session) fillName(rec *message.Message, ctx declContext) {
	if rec.HasName {
		return
	}
	if s.Config.GenerateNames {
		rec.Name = message.ComputeName("", ctx.name, rec.Meaning)
		rec.HasName = rec.Name != ""
	}
}

// reconcileArguments establishes the record's argument list. Ownership of
// argument names flows downward from the declaration: tracked parameters
// win, and an explicit args attribute must agree with them.
func reconcileArguments(rec *message.Message, ctx declContext, explicitArgs []string, hasArgs, generateNames bool) error {
	if ctx.hasParams {
		if hasArgs && !equalStrings(explicitArgs, ctx.params) {
			return fmt.Errorf("the 'args' attribute %v must match the enclosing declaration parameters %v", explicitArgs, ctx.params)
		}
		if !hasArgs && len(ctx.params) > 0 && !generateNames {
			return errors.New("the 'args' attribute must be specified")
		}
		rec.Arguments = ctx.params
		return nil
	}
	if hasArgs {
		rec.Arguments = explicitArgs
	}
	return nil
}

// applyAttributes routes one options-object entry set onto the record.
// Unknown keys are stored verbatim for simple messages and rejected for the
// select family, whose attribute set is closed.
func (s *Session) applyAttributes(rec *message.Message, entries []parse.NamedArg) (explicitArgs []string, hasArgs bool, err error) {
	for _, a := range entries {
		if !rec.AllowsAttribute(a.Key) {
			return nil, false, fmt.Errorf("invalid attribute %q for Intl.%s", a.Key, rec.Kind)
		}
		switch a.Key {
		case "name":
			v, ok := parse.LiteralValue(a.Value, s.source)
			if !ok {
				return nil, false, errors.New("the 'name' attribute must be a string literal")
			}
			rec.Name = v
			rec.HasName = true
		case "desc", "description":
			v, ok := parse.LiteralValue(a.Value, s.source)
			if !ok {
				return nil, false, fmt.Errorf("the %q attribute must be a string literal", a.Key)
			}
			rec.Description = v
		case "meaning":
			v, ok := parse.LiteralValue(a.Value, s.source)
			if !ok {
				return nil, false, errors.New("the 'meaning' attribute must be a string literal")
			}
			rec.Meaning = v
		case "skip":
			v, ok := parse.BoolValue(a.Value)
			if !ok {
				return nil, false, errors.New("the 'skip' attribute must be a boolean literal")
			}
			rec.Skip = v
		case "args":
			elems := parse.ArrayElements(a.Value)
			if elems == nil {
				return nil, false, errors.New("the 'args' attribute must be an array of identifiers")
			}
			hasArgs = true
			for _, e := range elems {
				if parse.KindOf(e) != parse.KindIdentifier {
					return nil, false, errors.New("the 'args' attribute must contain only simple identifiers")
				}
				explicitArgs = append(explicitArgs, parse.Text(e, s.source))
			}
		case "examples":
			examples, exErr := s.exampleMap(a.Value)
			if exErr != nil {
				return nil, false, exErr
			}
			rec.Examples = examples
		default:
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]string)
			}
			rec.Attributes[a.Key] = parse.Text(a.Value, s.source)
		}
	}
	return explicitArgs, hasArgs, nil
}

func (s *Session) exampleMap(n *sitter.Node) (map[string]string, error) {
	if parse.KindOf(n) != parse.KindObject {
		return nil, errors.New("the 'examples' attribute must be an object literal")
	}
	entries, ok := parse.ObjectEntries(n, s.source)
	if !ok {
		return nil, errors.New("the 'examples' attribute must use plain literal keys")
	}
	examples := make(map[string]string, len(entries))
	for _, e := range entries {
		if v, ok := parse.LiteralValue(e.Value, s.source); ok {
			examples[e.Key] = v
			continue
		}
		// Numbers and other scalars keep their source form.
		examples[e.Key] = parse.Text(e.Value, s.source)
	}
	return examples, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
