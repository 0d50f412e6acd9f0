package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/phobologic/intlextract/internal/message"
)

// WriteARB serializes the catalog as ARB JSON: an @@locale header, one
// ICU MessageFormat entry per message, and a @name metadata object carrying
// the description, placeholders, and captured source text.
func (c *Catalog) WriteARB(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	writeEntry := func(key string, value any, last bool) error {
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		vb, err := json.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return err
		}
		buf.WriteString("  ")
		buf.Write(kb)
		buf.WriteString(": ")
		buf.Write(vb)
		if !last {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
		return nil
	}

	if err := writeEntry("@@locale", c.Locale, len(c.names) == 0); err != nil {
		return err
	}
	for i, name := range c.names {
		rec := c.records[name]
		if err := writeEntry(name, ICUText(rec), false); err != nil {
			return err
		}
		last := i == len(c.names)-1
		if err := writeEntry("@"+name, metadata(rec), last); err != nil {
			return err
		}
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

type arbMeta struct {
	Description  string                     `json:"description,omitempty"`
	Type         string                     `json:"type"`
	Placeholders map[string]json.RawMessage `json:"placeholders,omitempty"`
	SourceText   string                     `json:"source_text,omitempty"`
}

func metadata(rec *message.Message) arbMeta {
	meta := arbMeta{Description: rec.Description, Type: "text", SourceText: rec.SourceText}
	if len(rec.Arguments) > 0 {
		meta.Placeholders = make(map[string]json.RawMessage, len(rec.Arguments))
		for _, arg := range rec.Arguments {
			if example, ok := rec.Examples[arg]; ok {
				body, err := json.Marshal(map[string]string{"example": example})
				if err == nil {
					meta.Placeholders[arg] = body
					continue
				}
			}
			meta.Placeholders[arg] = json.RawMessage("{}")
		}
	}
	return meta
}

// ICUText renders a record as an ICU MessageFormat string. Plural records
// become {arg, plural, ...}; gender and select both map to ICU select.
func ICUText(m *message.Message) string {
	var b strings.Builder
	writeICU(&b, m)
	return b.String()
}

func writeICU(b *strings.Builder, m *message.Message) {
	if !m.SelectFamily() {
		writeICUPieces(b, m, m.Pieces)
		return
	}

	keyword := "select"
	if m.Kind == message.Plural {
		keyword = "plural"
	}
	fmt.Fprintf(b, "{%s, %s,", m.MainArg, keyword)
	for _, key := range m.CaseOrder {
		fmt.Fprintf(b, " %s{", key)
		writeICUPieces(b, m, m.Cases[key])
		b.WriteString("}")
	}
	b.WriteString("}")
}

func writeICUPieces(b *strings.Builder, owner *message.Message, pieces []message.Piece) {
	for _, p := range pieces {
		switch v := p.(type) {
		case message.Literal:
			b.WriteString(string(v))
		case message.ArgIndex:
			fmt.Fprintf(b, "{%s}", owner.ArgName(v))
		case *message.Message:
			writeICU(b, v)
		}
	}
}
