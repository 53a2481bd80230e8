package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Extractor pulls plain text out of uploaded documents.
type Extractor struct {
	log *logger.Logger
}

// New creates a text extractor.
func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// ExtractText returns the plain text of a document, dispatching on the file
// extension. Unknown extensions fail with ErrUnsupportedFormat.
func (e *Extractor) ExtractText(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = e.extractPDF(content)
	case ".docx":
		text, err = e.extractDOCX(content)
	case ".txt":
		text, err = e.extractTXT(content)
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "extension %q", ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.Wrapf(errors.ErrExtraction, "no text content in %s", filename)
	}
	return text, nil
}

// extractPDF reads every page through the PDF text layer. The parser panics on
// some malformed files, so the recover converts that into an extraction error.
func (e *Extractor) extractPDF(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warnw("PDF parser panic", "panic", r)
			err = errors.Wrapf(errors.ErrExtraction, "malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrapf(errors.ErrExtraction, "open PDF: %v", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrapf(errors.ErrExtraction, "read PDF text: %v", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", errors.Wrapf(errors.ErrExtraction, "read PDF text: %v", err)
	}
	return buf.String(), nil
}

// docx files are zip archives; the body lives in word/document.xml and the
// visible text sits in w:t elements, one w:p element per paragraph.
func (e *Extractor) extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrapf(errors.ErrExtraction, "open docx archive: %v", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", errors.Wrapf(errors.ErrExtraction, "open document.xml: %v", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", errors.Wrap(errors.ErrExtraction, "docx archive has no word/document.xml")
	}
	defer docXML.Close()

	var (
		buf    strings.Builder
		inText bool
	)
	decoder := xml.NewDecoder(docXML)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrapf(errors.ErrExtraction, "parse document.xml: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return buf.String(), nil
}

func (e *Extractor) extractTXT(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", errors.Wrap(errors.ErrExtraction, "text file is not valid UTF-8")
	}
	return string(content), nil
}
