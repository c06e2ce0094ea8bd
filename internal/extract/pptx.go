package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// extractPPTX walks slides in deck order and, for every shape that carries a
// text body, appends the shape's text followed by a newline. Paragraphs
// inside one shape are joined with newlines.
func extractPPTX(data []byte) (Content, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, err
	}

	type slide struct {
		n int
		f *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		var n int
		if _, err := fmt.Sscanf(f.Name, "ppt/slides/slide%d.xml", &n); err == nil {
			slides = append(slides, slide{n: n, f: f})
		}
	}
	// Slide files are named slide1.xml, slide2.xml, ... ; sort numerically
	// so slide10 does not land before slide2.
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	var sb strings.Builder
	for _, s := range slides {
		rc, err := s.f.Open()
		if err != nil {
			return Content{}, err
		}
		shapes, err := shapeTexts(rc)
		rc.Close()
		if err != nil {
			return Content{}, fmt.Errorf("slide %d: %w", s.n, err)
		}
		for _, text := range shapes {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}
	return Content{Kind: KindText, Text: sb.String()}, nil
}

// shapeTexts collects the text of every txBody on a slide. Each a:p inside
// a body is one paragraph; a:t elements hold the runs.
func shapeTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var shapes []string
	var paras []string
	var cur strings.Builder
	inBody := false

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
			case "txBody":
				inBody = true
				paras = nil
			case "p":
				if inBody {
					cur.Reset()
				}
			case "t":
				if !inBody {
					continue
				}
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return nil, err
				}
				cur.WriteString(s)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inBody {
					paras = append(paras, cur.String())
					cur.Reset()
				}
			case "txBody":
				shapes = append(shapes, strings.Join(paras, "\n"))
				inBody = false
			}
		}
	}
	return shapes, nil
}
