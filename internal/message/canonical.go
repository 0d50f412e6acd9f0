package message

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalForm regenerates a normalized source form of the record, used
// solely for duplicate-equivalence comparison. Description and examples are
// deliberately ignored: two messages with identical text but different
// descriptions count as the same message.
func (m *Message) CanonicalForm() string {
	var b strings.Builder
	m.writeCanonical(&b)
	return b.String()
}

func (m *Message) writeCanonical(b *strings.Builder) {
	fmt.Fprintf(b, "Intl.%s(", m.Kind)
	if m.SelectFamily() {
		b.WriteString(m.MainArg)
		b.WriteString(", {")
		for i, key := range m.canonicalCaseOrder() {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: '", key)
			m.writePieces(b, m.Cases[key])
			b.WriteString("'")
		}
		b.WriteString("}")
	} else {
		b.WriteString("'")
		m.writePieces(b, m.Pieces)
		b.WriteString("'")
	}
	if opts := m.canonicalOptions(); opts != "" {
		b.WriteString(", {")
		b.WriteString(opts)
		b.WriteString("}")
	}
	b.WriteString(")")
}

// canonicalCaseOrder lists present cases in a normalized order: the fixed
// key order for plural/gender, sorted keys for select.
func (m *Message) canonicalCaseOrder() []string {
	if fixed := m.CaseKeys(); fixed != nil {
		var out []string
		for _, key := range fixed {
			if _, ok := m.Cases[key]; ok {
				out = append(out, key)
			}
		}
		return out
	}
	out := make([]string, 0, len(m.Cases))
	for key := range m.Cases {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (m *Message) canonicalOptions() string {
	var opts []string
	if m.HasName {
		opts = append(opts, fmt.Sprintf("name: '%s'", m.Name))
	}
	if len(m.Arguments) > 0 {
		opts = append(opts, fmt.Sprintf("args: [%s]", strings.Join(m.Arguments, ", ")))
	}
	if m.Meaning != "" {
		opts = append(opts, fmt.Sprintf("meaning: '%s'", escapeLiteral(m.Meaning)))
	}
	if m.Skip {
		opts = append(opts, "skip: true")
	}
	return strings.Join(opts, ", ")
}

func (m *Message) writePieces(b *strings.Builder, pieces []Piece) {
	for _, p := range pieces {
		switch v := p.(type) {
		case Literal:
			b.WriteString(escapeLiteral(string(v)))
		case ArgIndex:
			fmt.Fprintf(b, "${%s}", m.ArgName(v))
		case *Message:
			b.WriteString("${")
			v.writeCanonical(b)
			b.WriteString("}")
		}
	}
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"'", "\\'",
		"$", "\\$",
		"\n", "\\n",
		"\t", "\\t",
	)
	return r.Replace(s)
}
