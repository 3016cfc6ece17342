package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/backend/internal/testutil"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.txt", FormatTXT, false},
		{"A.PDF", FormatPDF, false},
		{"x/y/report.docx", FormatDOCX, false},
		{"old.doc", FormatDOC, false},
		{"image.png", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Detect(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Text(t *testing.T) {
	path := writeFile(t, "1_alice.txt", []byte("Hello world, this is Alice."))

	text, err := New(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Hello world, this is Alice.", text)
}

func TestExtract_Docx(t *testing.T) {
	data := testutil.DocxBytes(t, "Alice was beginning to get very tired.", "", "Down the Rabbit-Hole")
	path := writeFile(t, "1_book.docx", data)

	text, err := New(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Alice was beginning to get very tired.\n\nDown the Rabbit-Hole", text)
}

func TestExtract_DocxWithoutDocumentXML(t *testing.T) {
	data := testutil.ZipBytes(t, map[string]string{"word/styles.xml": "<styles/>"})
	path := writeFile(t, "1_broken.docx", data)

	_, err := New(nil).Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtract_LegacyDocFails(t *testing.T) {
	// OLE compound file header, not a zip archive
	path := writeFile(t, "1_legacy.doc", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})

	_, err := New(nil).Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtract_CorruptPDFFails(t *testing.T) {
	path := writeFile(t, "1_corrupt.pdf", []byte("this is not a pdf"))

	_, err := New(nil).Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtract_Unsupported(t *testing.T) {
	path := writeFile(t, "1_image.png", []byte{0x89, 'P', 'N', 'G'})

	_, err := New(nil).Extract(context.Background(), path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestExtract_CancelledContext(t *testing.T) {
	path := writeFile(t, "1_a.txt", []byte("text"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextFromContentStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n72 712 Td\n(Alice was) Tj\n0 -14 Td\n[(begin) -20 (ning)] TJ\nT*\n(to get \\(very\\) tired) Tj\nET\n")

	got := textFromContentStream(stream)
	assert.Equal(t, "Alice was beginning\nto get (very) tired", got)
}

func TestDecodePDFString(t *testing.T) {
	assert.Equal(t, "a b", decodePDFString([]byte(`a\040b`)))
	assert.Equal(t, "line\nnext", decodePDFString([]byte(`line\nnext`)))
	assert.Equal(t, `back\slash`, decodePDFString([]byte(`back\\slash`)))
}
