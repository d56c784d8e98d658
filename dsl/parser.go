package dsl

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:px|pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;,=]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a book-plan file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Title   StringLiteral  `parser:"Newline* 'book' @String"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Entry is either a stop block or a book-level property.
type Entry struct {
	Stop     *Stop     `parser:"  @@"`
	Property *Property `parser:"| @@"`
}

// Stop describes one two-page spread. The title is optional.
type Stop struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Title      StringLiteral  `parser:"'stop' @String?"`
	Properties []*Property    `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// Property uses colon syntax (key: value).
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a string, a number (optionally with a unit suffix) or a bare identifier.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the raw textual form of the value.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Kind returns "string", "number", "ident" or "unknown".
func (v *Value) Kind() string {
	switch {
	case v == nil:
		return "unknown"
	case v.String != nil:
		return "string"
	case v.Number != nil:
		return "number"
	case v.Ident != nil:
		return "ident"
	default:
		return "unknown"
	}
}

// Stops returns the stop blocks in declaration order.
func (d *Document) Stops() []*Stop {
	var out []*Stop
	for _, e := range d.Entries {
		if e.Stop != nil {
			out = append(out, e.Stop)
		}
	}
	return out
}

// Properties returns book-level properties in declaration order.
func (d *Document) Properties() []*Property {
	var out []*Property
	for _, e := range d.Entries {
		if e.Property != nil {
			out = append(out, e.Property)
		}
	}
	return out
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a book plan from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a book plan held in a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseFile parses the book plan at path; positions in errors carry the filename.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开计划文件 %s: %w", path, err)
	}
	defer file.Close()
	return documentParser.Parse(path, file)
}
