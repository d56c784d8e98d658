package dsl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/bookprint/dsl"
)

const samplePlan = `
// 示例计划
book "${child.name}'s Big Trip" {
  author: "The Parkers"
  dedication: "For ${child.name}"
  format: hardcover-square

  stop "Beach day" {
    photo: "photos/beach.jpg"
    caption: "Sand castles"
  }
  stop "Zoo" { width: 1800px; height: 1200 }
  stop
}
`

func TestParsePlan(t *testing.T) {
	doc, err := dsl.ParseString(samplePlan)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Title != "${child.name}'s Big Trip" {
		t.Fatalf("unexpected title %q", doc.Title)
	}

	props := doc.Properties()
	if len(props) != 3 {
		t.Fatalf("expected 3 book properties, got %d", len(props))
	}
	if props[0].Key != "author" || props[0].Value.Text() != "The Parkers" {
		t.Fatalf("unexpected author property: %+v", props[0])
	}
	if props[2].Value.Kind() != "ident" || props[2].Value.Text() != "hardcover-square" {
		t.Fatalf("format should be an identifier, got %s %q", props[2].Value.Kind(), props[2].Value.Text())
	}

	stops := doc.Stops()
	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}
	if stops[0].Title != "Beach day" || len(stops[0].Properties) != 2 {
		t.Fatalf("unexpected first stop: %+v", stops[0])
	}
	zoo := stops[1]
	if len(zoo.Properties) != 2 {
		t.Fatalf("inline stop should have 2 properties, got %d", len(zoo.Properties))
	}
	if zoo.Properties[0].Value.Kind() != "number" || zoo.Properties[0].Value.Text() != "1800px" {
		t.Fatalf("unexpected width value: %s %q", zoo.Properties[0].Value.Kind(), zoo.Properties[0].Value.Text())
	}
	if stops[2].Title != "" || len(stops[2].Properties) != 0 {
		t.Fatalf("bare stop should be empty: %+v", stops[2])
	}
	if stops[0].Pos.Line == 0 {
		t.Fatalf("stop position should be recorded")
	}
}

func TestParseRejectsMissingBook(t *testing.T) {
	_, err := dsl.ParseString(`title: "x"`)
	if err == nil {
		t.Fatalf("expected error for plan without book header")
	}
}

func TestParseRejectsUnclosedBlock(t *testing.T) {
	_, err := dsl.Parse(strings.NewReader("book \"x\" {\n stop \"a\" {\n photo: \"a.jpg\"\n}\n"))
	if err == nil {
		t.Fatalf("expected error for unclosed book block")
	}
}

func TestParseFileReportsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.book")
	if err := os.WriteFile(path, []byte("book \"x\" {\n  title \"y\"\n}\n"), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	_, err := dsl.ParseFile(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.book") {
		t.Fatalf("error should mention the file name: %v", err)
	}
}
