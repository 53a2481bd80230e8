package extraction

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

func newTestExtractor() *Extractor {
	return New(logger.Get())
}

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_TXT(t *testing.T) {
	e := newTestExtractor()

	text, err := e.ExtractText("policy.txt", []byte("  Access is reviewed quarterly.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Access is reviewed quarterly.", text)
}

func TestExtractText_TXTInvalidEncoding(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText("policy.txt", []byte{0xff, 0xfe, 0xfd})
	assert.True(t, errors.Is(err, errors.ErrExtraction))
}

func TestExtractText_DOCX(t *testing.T) {
	e := newTestExtractor()
	content := buildDOCX(t, []string{"SOC2 Type II Report", "No exceptions noted."})

	text, err := e.ExtractText("report.docx", content)
	require.NoError(t, err)
	assert.Contains(t, text, "SOC2 Type II Report")
	assert.Contains(t, text, "No exceptions noted.")
}

func TestExtractText_DOCXNotAnArchive(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText("report.docx", []byte("plain text pretending"))
	assert.True(t, errors.Is(err, errors.ErrExtraction))
}

func TestExtractText_DOCXMissingDocumentXML(t *testing.T) {
	e := newTestExtractor()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = e.ExtractText("report.docx", buf.Bytes())
	assert.True(t, errors.Is(err, errors.ErrExtraction))
}

func TestExtractText_MalformedPDF(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText("report.pdf", []byte("%PDF-1.4 truncated garbage"))
	assert.True(t, errors.Is(err, errors.ErrExtraction))
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText("macro.xlsm", []byte("data"))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
}

func TestExtractText_EmptyResult(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractText("blank.txt", []byte("   \n\t  "))
	assert.True(t, errors.Is(err, errors.ErrExtraction))
}
