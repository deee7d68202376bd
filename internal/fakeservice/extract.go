package fakeservice

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var errNoText = errors.New("no text found in document")

// extractText turns an uploaded resume into plain text. The kind is taken from
// the file extension.
func extractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		if !utf8.Valid(data) {
			return "", errors.New("text file is not valid UTF-8")
		}
		text = string(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}

	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		return docxText(rc)
	}

	return "", errors.New("word/document.xml not found in docx")
}

func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing docx xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}

	return strings.TrimSpace(buf.String()), nil
}
