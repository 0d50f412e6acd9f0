package parse

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind classifies the node categories the engine dispatches on. Anything
// outside the closed set is KindOther and gets generic child recursion.
type Kind int

const (
	KindOther Kind = iota
	KindFunctionDecl   // function_declaration and generator form
	KindMethodDecl     // method_definition inside a class body
	KindFieldDecl      // class field with an initializer
	KindVariableDecl   // lexical_declaration / variable_declaration statement
	KindFunctionValue  // arrow_function or function expression used as a value
	KindCall           // call_expression
	KindString         // plain string literal
	KindTemplateString // template string with substitutions
	KindBinary         // binary_expression (caller checks the operator)
	KindIdentifier
	KindObject // object literal
	KindParen  // parenthesized_expression
)

// KindOf maps a tree-sitter node type to its engine category.
func KindOf(n *sitter.Node) Kind {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		return KindFunctionDecl
	case "method_definition":
		return KindMethodDecl
	case "field_definition", "public_field_definition":
		return KindFieldDecl
	case "lexical_declaration", "variable_declaration":
		return KindVariableDecl
	case "arrow_function", "function_expression", "function", "generator_function":
		return KindFunctionValue
	case "call_expression":
		return KindCall
	case "string":
		return KindString
	case "template_string":
		return KindTemplateString
	case "binary_expression":
		return KindBinary
	case "identifier":
		return KindIdentifier
	case "object":
		return KindObject
	case "parenthesized_expression":
		return KindParen
	}
	return KindOther
}

// CallParts splits a call expression into its receiver node and method name.
// Returns a nil target when the callee is not a property access.
func CallParts(call *sitter.Node, source []byte) (target *sitter.Node, method string) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return nil, ""
	}
	prop := fn.ChildByFieldName("property")
	if prop == nil {
		return nil, ""
	}
	return fn.ChildByFieldName("object"), Text(prop, source)
}

// TargetsIntl reports whether a call receiver resolves to the Intl
// identifier, either bare (Intl.message) or as the final property of a
// qualified reference (i18n.Intl.message).
func TargetsIntl(target *sitter.Node, source []byte) bool {
	if target == nil {
		return false
	}
	switch target.Type() {
	case "identifier":
		return Text(target, source) == "Intl"
	case "member_expression":
		prop := target.ChildByFieldName("property")
		return prop != nil && Text(prop, source) == "Intl"
	}
	return false
}

// CallArgs returns the argument expressions of a call in source order.
func CallArgs(call *sitter.Node) []*sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// DeclInfo is the name/parameter context a declaration contributes to the
// message calls found inside it.
type DeclInfo struct {
	Name           string
	HasName        bool
	Params         []string
	HasParams      bool
	HasNamedParams bool // object-pattern or rest parameters present
}

// Declaration extracts the naming context from a declaration node. ok is
// false when n is not a declaration. A statement binding more than one
// variable yields HasName false: such declarations cannot name a message.
func Declaration(n *sitter.Node, source []byte) (info DeclInfo, ok bool) {
	switch KindOf(n) {
	case KindFunctionDecl, KindMethodDecl:
		name := n.ChildByFieldName("name")
		if name != nil {
			info.Name = Text(name, source)
			info.HasName = true
		}
		fillParams(&info, n, source)
		return info, true

	case KindFieldDecl:
		prop := n.ChildByFieldName("property")
		if prop == nil {
			prop = n.ChildByFieldName("name")
		}
		if prop != nil {
			info.Name = Text(prop, source)
			info.HasName = true
		}
		if value := n.ChildByFieldName("value"); value != nil && KindOf(value) == KindFunctionValue {
			fillParams(&info, value, source)
		}
		return info, true

	case KindVariableDecl:
		var declarator *sitter.Node
		count := 0
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "variable_declarator" {
				declarator = child
				count++
			}
		}
		if count != 1 {
			return DeclInfo{}, true
		}
		name := declarator.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			return DeclInfo{}, true
		}
		info.Name = Text(name, source)
		info.HasName = true
		if value := declarator.ChildByFieldName("value"); value != nil && KindOf(value) == KindFunctionValue {
			fillParams(&info, value, source)
		}
		return info, true
	}
	return DeclInfo{}, false
}

func fillParams(info *DeclInfo, fn *sitter.Node, source []byte) {
	if p := fn.ChildByFieldName("parameter"); p != nil {
		// Bare single-identifier arrow parameter.
		info.HasParams = true
		info.Params = append(info.Params, Text(p, source))
		return
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	info.HasParams = true
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		name, named := paramName(child, source)
		if named {
			info.HasNamedParams = true
			continue
		}
		if name != "" {
			info.Params = append(info.Params, name)
		}
	}
}

// paramName resolves one formal parameter to its positional name. named is
// true for object-pattern and rest parameters, which cannot be referenced
// by position from a message body.
func paramName(p *sitter.Node, source []byte) (name string, named bool) {
	switch p.Type() {
	case "identifier":
		return Text(p, source), false
	case "assignment_pattern":
		left := p.ChildByFieldName("left")
		if left != nil && left.Type() == "identifier" {
			return Text(left, source), false
		}
		return "", true
	case "required_parameter", "optional_parameter":
		// TypeScript wraps the pattern and adds type annotations.
		pat := p.ChildByFieldName("pattern")
		if pat == nil {
			return "", true
		}
		return paramName(pat, source)
	case "object_pattern", "array_pattern", "rest_pattern":
		return "", true
	case "comment":
		return "", false
	}
	return "", true
}

// NamedArg is one key/value entry of an options object literal.
type NamedArg struct {
	Key   string
	Value *sitter.Node
}

// ObjectEntries lists the entries of an object literal in source order.
// ok is false when the object uses spread or computed keys, which the
// extractor cannot interpret statically.
func ObjectEntries(obj *sitter.Node, source []byte) (entries []NamedArg, ok bool) {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		child := obj.NamedChild(i)
		switch child.Type() {
		case "pair":
			key := child.ChildByFieldName("key")
			value := child.ChildByFieldName("value")
			if key == nil || value == nil {
				return nil, false
			}
			var keyText string
			switch key.Type() {
			case "property_identifier", "identifier", "number":
				keyText = Text(key, source)
			case "string":
				keyText = StringContent(key, source)
			default:
				return nil, false
			}
			entries = append(entries, NamedArg{Key: keyText, Value: value})
		case "shorthand_property_identifier":
			entries = append(entries, NamedArg{Key: Text(child, source), Value: child})
		case "comment":
		default:
			return nil, false
		}
	}
	return entries, true
}

// ArrayElements returns the element expressions of an array literal, or nil
// if n is not one.
func ArrayElements(n *sitter.Node) []*sitter.Node {
	if n.Type() != "array" {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// StringContent returns the unescaped text of a plain string literal node.
// The interior is sliced between the quote delimiters rather than read from
// child nodes, which keeps this independent of grammar-version differences
// in how literal fragments are exposed.
func StringContent(n *sitter.Node, source []byte) string {
	start, end := n.StartByte()+1, n.EndByte()-1
	if end <= start {
		return ""
	}
	return unescapeText(string(source[start:end]))
}

// LiteralValue evaluates a likely-constant string expression: a string
// literal, a parenthesized literal, or a + concatenation of such. ok is
// false when the expression is not a string constant.
func LiteralValue(n *sitter.Node, source []byte) (value string, ok bool) {
	switch KindOf(n) {
	case KindString:
		return StringContent(n, source), true
	case KindParen:
		inner := n.NamedChild(0)
		if inner == nil {
			return "", false
		}
		return LiteralValue(inner, source)
	case KindBinary:
		op := n.ChildByFieldName("operator")
		l, r := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if op == nil || op.Type() != "+" || l == nil || r == nil {
			return "", false
		}
		left, lok := LiteralValue(l, source)
		right, rok := LiteralValue(r, source)
		if !lok || !rok {
			return "", false
		}
		return left + right, true
	}
	return "", false
}

// TemplatePart is one literal run or substitution of a template string.
// Expr is nil for literal runs.
type TemplatePart struct {
	Text string
	Expr *sitter.Node
}

// TemplateParts splits a template string into literal runs and substitution
// expressions, in order. Literal runs come from the byte gaps between
// substitutions; empty gaps produce no part.
func TemplateParts(n *sitter.Node, source []byte) []TemplatePart {
	var parts []TemplatePart
	cursor := n.StartByte() + 1 // past the opening backtick
	end := n.EndByte() - 1      // before the closing backtick

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}
		if child.StartByte() > cursor {
			parts = append(parts, TemplatePart{Text: unescapeText(string(source[cursor:child.StartByte()]))})
		}
		cursor = child.EndByte()
		if expr := child.NamedChild(0); expr != nil {
			parts = append(parts, TemplatePart{Expr: expr})
		}
	}
	if end > cursor {
		parts = append(parts, TemplatePart{Text: unescapeText(string(source[cursor:end]))})
	}
	return parts
}

// BoolValue evaluates a boolean literal. ok is false otherwise.
func BoolValue(n *sitter.Node) (value, ok bool) {
	switch n.Type() {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// unescapeText resolves JavaScript escape sequences in raw literal text.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			b.WriteByte('x')
		case 'u':
			if r, consumed, ok := decodeUnicodeEscape(s[i+1:]); ok {
				b.WriteRune(r)
				i += consumed
				continue
			}
			b.WriteByte('u')
		default:
			// \\, \', \", \`, \$ and anything unrecognized: drop the backslash.
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// decodeUnicodeEscape reads the \uXXXX or \u{...} payload following "\u".
func decodeUnicodeEscape(s string) (r rune, consumed int, ok bool) {
	if len(s) > 0 && s[0] == '{' {
		close := strings.IndexByte(s, '}')
		if close < 0 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:close], 16, 32)
		if err != nil {
			return 0, 0, false
		}
		return rune(v), close + 1, true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), 4, true
}
