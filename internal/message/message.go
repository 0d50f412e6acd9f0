// Package message defines the extracted message records: simple messages
// plus the plural/gender/select family, their decomposed piece lists, and
// the per-kind validity rules.
package message

import (
	"fmt"
	"sort"
)

// Kind tags the four recognized message call shapes.
type Kind string

const (
	Simple Kind = "message"
	Plural Kind = "plural"
	Gender Kind = "gender"
	Select Kind = "select"
)

// Piece is one element of a decomposed message body: literal text, a
// zero-based argument index, or a nested select-family message.
type Piece interface {
	piece()
}

// Literal is a verbatim text segment.
type Literal string

// ArgIndex references a formal argument by position.
type ArgIndex int

func (Literal) piece()  {}
func (ArgIndex) piece() {}
func (*Message) piece() {}

// Message is one extracted record. Cases and CaseOrder are populated only
// for the select family; Pieces only for simple messages. Parent is a
// non-owning back-reference for nested select-family records.
type Message struct {
	Kind      Kind
	Name      string
	HasName   bool
	Arguments []string
	Pieces    []Piece
	Cases     map[string][]Piece
	CaseOrder []string
	MainArg   string

	Description string
	Meaning     string
	Examples    map[string]string
	Attributes  map[string]string
	Skip        bool
	SourceText  string

	Parent *Message

	Origin string
	Line   int
	Col    int
}

// New constructs an empty record of the given kind.
func New(kind Kind) *Message {
	return &Message{Kind: kind, Cases: make(map[string][]Piece)}
}

var pluralCaseKeys = []string{"zero", "one", "two", "few", "many", "other"}
var genderCaseKeys = []string{"female", "male", "other"}

var selectFamilyAttrs = []string{"name", "args", "desc", "meaning", "examples", "skip"}

// SelectFamily reports whether the record switches over case bodies.
func (m *Message) SelectFamily() bool {
	return m.Kind == Plural || m.Kind == Gender || m.Kind == Select
}

// CaseKeys returns the case-body keys of interest for this kind. For Select
// the case set is open and nil is returned.
func (m *Message) CaseKeys() []string {
	switch m.Kind {
	case Plural:
		return pluralCaseKeys
	case Gender:
		return genderCaseKeys
	}
	return nil
}

// AttributeNames returns the named attributes this kind accepts, or nil
// when any attribute is accepted (simple messages store unknown attributes
// verbatim).
func (m *Message) AttributeNames() []string {
	if m.Kind == Simple {
		return nil
	}
	return selectFamilyAttrs
}

// AllowsAttribute reports whether a named attribute key is legal for this
// kind.
func (m *Message) AllowsAttribute(key string) bool {
	allowed := m.AttributeNames()
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a == key {
			return true
		}
	}
	return false
}

// SetCase stores a decomposed case body, preserving first-seen order.
func (m *Message) SetCase(key string, pieces []Piece) {
	if _, exists := m.Cases[key]; !exists {
		m.CaseOrder = append(m.CaseOrder, key)
	}
	m.Cases[key] = pieces
}

// Root returns the outermost enclosing record. Argument indices in nested
// case bodies resolve against the root's argument list.
func (m *Message) Root() *Message {
	r := m
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// ArgName resolves a piece's argument index against the root argument list.
func (m *Message) ArgName(i ArgIndex) string {
	args := m.Root().Arguments
	if int(i) < 0 || int(i) >= len(args) {
		return fmt.Sprintf("arg%d", int(i))
	}
	return args[int(i)]
}

// Validate applies the per-kind structural rules after assembly.
func (m *Message) Validate(requireExamples, requireDescription bool) error {
	if !m.HasName || m.Name == "" {
		return fmt.Errorf("the 'name' argument must be specified for Intl.%s", m.Kind)
	}
	if requireDescription && m.Description == "" {
		return fmt.Errorf("message %q requires a 'desc' attribute", m.Name)
	}
	if requireExamples && len(m.Examples) == 0 && len(m.Arguments) > 0 {
		return fmt.Errorf("message %q requires an 'examples' attribute", m.Name)
	}
	if err := m.validateStructure(); err != nil {
		return err
	}
	return m.checkIndices(m.Root())
}

// validateStructure applies the select-family shape rules to this record
// and every nested sub-message.
func (m *Message) validateStructure() error {
	if m.SelectFamily() {
		if _, ok := m.Cases["other"]; !ok {
			return fmt.Errorf("Intl.%s is missing the required 'other' case", m.Kind)
		}
		if m.MainArg == "" {
			return fmt.Errorf("Intl.%s has no main argument", m.Kind)
		}
	}
	walk := func(pieces []Piece) error {
		for _, p := range pieces {
			if sub, ok := p.(*Message); ok {
				if err := sub.validateStructure(); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(m.Pieces); err != nil {
		return err
	}
	for _, key := range m.CaseOrder {
		if err := walk(m.Cases[key]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Message) checkIndices(root *Message) error {
	check := func(pieces []Piece) error {
		for _, p := range pieces {
			switch v := p.(type) {
			case ArgIndex:
				if int(v) < 0 || int(v) >= len(root.Arguments) {
					return fmt.Errorf("argument index %d out of range for message %q", int(v), root.Name)
				}
			case *Message:
				if err := v.checkIndices(root); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := check(m.Pieces); err != nil {
		return err
	}
	keys := make([]string, 0, len(m.Cases))
	for k := range m.Cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := check(m.Cases[k]); err != nil {
			return err
		}
	}
	return nil
}

// HasSubMessage reports whether any piece is a nested select-family record.
func HasSubMessage(pieces []Piece) bool {
	for _, p := range pieces {
		if _, ok := p.(*Message); ok {
			return true
		}
	}
	return false
}

// HasNonEmptyLiteral reports whether any piece is non-empty literal text.
func HasNonEmptyLiteral(pieces []Piece) bool {
	for _, p := range pieces {
		if lit, ok := p.(Literal); ok && lit != "" {
			return true
		}
	}
	return false
}
