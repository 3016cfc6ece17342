package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

// ZipBytes builds an in-memory zip archive from name -> content.
func ZipBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// DocxBytes builds a minimal .docx with one paragraph per argument. An empty
// string produces an empty paragraph.
func DocxBytes(t testing.TB, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		if p == "" {
			body.WriteString("<w:p/>")
			continue
		}
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(p)); err != nil {
			t.Fatalf("escape paragraph: %v", err)
		}
		body.WriteString("</w:t></w:r></w:p>")
	}

	document := xml.Header +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		"<w:body>" + body.String() + "</w:body></w:document>"

	return ZipBytes(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`,
		"word/document.xml":   document,
	})
}

// AliceParagraph is a long paragraph mentioning Alice, usable as model context.
const AliceParagraph = "Alice was beginning to get very tired of sitting by her sister on the bank, " +
	"and of having nothing to do: once or twice she had peeped into the book her sister was reading."

// RabbitParagraph is a long paragraph about the White Rabbit.
const RabbitParagraph = "Suddenly a White Rabbit with pink eyes ran close by her. There was nothing so very " +
	"remarkable in that; nor did she think it so very much out of the way to hear the Rabbit say to itself."
