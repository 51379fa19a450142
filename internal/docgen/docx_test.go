package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestWriteProducesValidContainer(t *testing.T) {
	var buf bytes.Buffer
	text := "Ligne une\nPersonne A & Organisation B\n<fin>"

	if err := Write(&buf, text); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a valid zip archive: %v", err)
	}

	parts := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(data)
	}

	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if _, ok := parts[want]; !ok {
			t.Errorf("missing archive part %s", want)
		}
	}

	doc := parts["word/document.xml"]
	if !strings.Contains(doc, "Ligne une") {
		t.Error("first paragraph missing from document part")
	}
	if !strings.Contains(doc, "Personne A &amp; Organisation B") {
		t.Error("ampersand not escaped in document part")
	}
	if !strings.Contains(doc, "&lt;fin&gt;") {
		t.Error("angle brackets not escaped in document part")
	}
	if got := strings.Count(doc, "<w:p>"); got != 3 {
		t.Errorf("paragraph count = %d, want 3", got)
	}
}

func TestWriteEmptyText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, ""); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		t.Fatalf("empty document is not a valid archive: %v", err)
	}
}
