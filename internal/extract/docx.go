package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// extractDOCX joins paragraph texts with newlines in document order.
// A .docx is a zip container; the body lives in word/document.xml as
// w:p paragraphs holding w:t text runs.
func extractDOCX(data []byte) (Content, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, err
	}

	f := zipFile(zr, "word/document.xml")
	if f == nil {
		return Content{}, errors.New("docx: missing word/document.xml")
	}

	rc, err := f.Open()
	if err != nil {
		return Content{}, err
	}
	defer rc.Close()

	paras, err := paragraphTexts(rc)
	if err != nil {
		return Content{}, err
	}
	return Content{Kind: KindText, Text: strings.Join(paras, "\n")}, nil
}

func zipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// paragraphTexts streams through WordprocessingML and collects the text of
// every paragraph. Runs within one paragraph are concatenated without a
// separator, matching how the document renders.
func paragraphTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paras []string
	var cur strings.Builder
	inPara := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				if !inPara {
					continue
				}
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return nil, err
				}
				cur.WriteString(s)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inPara {
				paras = append(paras, cur.String())
				inPara = false
			}
		}
	}
	return paras, nil
}
