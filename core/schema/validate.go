package schema

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// maxViolations stops validation of badly broken documents early.
const maxViolations = 100

// Violation is one structural problem found in a document.
type Violation struct {
	Line    int    `json:"line"`
	Element string `json:"element"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Element == "" {
		return fmt.Sprintf("line %d: %s", v.Line, v.Message)
	}
	return fmt.Sprintf("line %d: <%s> %s", v.Line, v.Element, v.Message)
}

// frame is an open element during the walk.
type frame struct {
	name   string
	line   int
	def    *Element
	leaf   bool
	open   bool
	counts map[string]int
	text   strings.Builder
}

type validator struct {
	schema     *Schema
	dec        *xml.Decoder
	stack      []*frame
	violations []Violation
}

// Validate checks the document read from r against the schema.
// An empty result means the document is valid. Malformed XML is reported as a violation.
func (s *Schema) Validate(r io.Reader) []Violation {
	v := &validator{schema: s, dec: xml.NewDecoder(r)}
	v.run()
	return v.violations
}

func (v *validator) line() int {
	line, _ := v.dec.InputPos()
	return line
}

func (v *validator) report(line int, element, format string, args ...any) {
	v.violations = append(v.violations, Violation{Line: line, Element: element, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) run() {
	sawRoot := false
	for len(v.violations) < maxViolations {
		tok, err := v.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			v.report(v.line(), "", "malformed document: %v", err)
			return
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(v.stack) == 0 {
				if sawRoot {
					v.report(v.line(), t.Name.Local, "second document element")
					return
				}
				sawRoot = true
				if t.Name.Local != v.schema.Root {
					v.report(v.line(), t.Name.Local, "unexpected document element, want <%s>", v.schema.Root)
					return
				}
			}
			v.start(t)
		case xml.CharData:
			if n := len(v.stack); n > 0 {
				v.stack[n-1].text.Write(t)
			}
		case xml.EndElement:
			v.end()
		}
	}
	if !sawRoot && len(v.violations) == 0 {
		v.report(v.line(), "", "document has no root element")
	}
}

func (v *validator) start(t xml.StartElement) {
	name := t.Name.Local
	line := v.line()

	if n := len(v.stack); n > 0 {
		parent := v.stack[n-1]
		switch {
		case parent.open:
			// any content
		case parent.leaf:
			v.report(line, name, "not allowed inside text element <%s>", parent.name)
		default:
			rule, ok := parent.def.children[name]
			if !ok {
				v.report(line, name, "not allowed inside <%s>", parent.name)
			} else {
				parent.counts[name]++
				if rule.Max != Unbounded && parent.counts[name] > rule.Max {
					v.report(line, name, "occurs more than %d times inside <%s>", rule.Max, parent.name)
				}
			}
		}
	}

	f := &frame{name: name, line: line, counts: make(map[string]int)}
	if len(v.stack) > 0 && v.stack[len(v.stack)-1].open {
		f.open = true
	} else if def, ok := v.schema.Elements[name]; ok {
		f.def = def
		f.open = def.Open
		f.leaf = len(def.children) == 0 && !def.Open
		v.checkAttributes(t, def, line)
	} else {
		f.leaf = true
	}
	v.stack = append(v.stack, f)
}

func (v *validator) checkAttributes(t xml.StartElement, def *Element, line int) {
	seen := make(map[string]bool, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space != "" || a.Name.Local == "xmlns" {
			continue
		}
		seen[a.Name.Local] = true
		rule, ok := def.attrs[a.Name.Local]
		if !ok {
			v.report(line, t.Name.Local, "unexpected attribute %q", a.Name.Local)
			continue
		}
		if len(rule.Enum) > 0 && !slices.Contains(rule.Enum, a.Value) {
			v.report(line, t.Name.Local, "attribute %q value %q not in %v", a.Name.Local, a.Value, rule.Enum)
		}
		if rule.re != nil && !rule.re.MatchString(a.Value) {
			v.report(line, t.Name.Local, "attribute %q value %q does not match %s", a.Name.Local, a.Value, rule.Pattern)
		}
	}
	for _, rule := range def.Attributes {
		if rule.Required && !seen[rule.Name] {
			v.report(line, t.Name.Local, "missing required attribute %q", rule.Name)
		}
	}
}

func (v *validator) end() {
	n := len(v.stack)
	if n == 0 {
		return
	}
	f := v.stack[n-1]
	v.stack = v.stack[:n-1]

	if f.def == nil || f.open {
		return
	}

	for _, c := range f.def.Children {
		if got := f.counts[c.Name]; got < c.Min {
			v.report(f.line, f.name, "requires at least %d <%s>, found %d", c.Min, c.Name, got)
		}
	}
	for _, group := range f.def.Choices {
		var present []string
		for _, name := range group {
			if f.counts[name] > 0 {
				present = append(present, name)
			}
		}
		if len(present) > 1 {
			v.report(f.line, f.name, "only one of %v is allowed, found %v", group, present)
		}
	}
	if f.def.Text != nil {
		text := strings.TrimSpace(f.text.String())
		if len(f.def.Text.Enum) > 0 && !slices.Contains(f.def.Text.Enum, text) {
			v.report(f.line, f.name, "value %q not in %v", text, f.def.Text.Enum)
		}
		if f.def.Text.re != nil && !f.def.Text.re.MatchString(text) {
			v.report(f.line, f.name, "value %q does not match %s", text, f.def.Text.Pattern)
		}
	}
}
