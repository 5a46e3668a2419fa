package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
)

var errPartNotFound = errors.New("package part not found")

// pictureRef is a picture anchor before its media part is resolved.
type pictureRef struct {
	from    models.Anchor
	embedID string
	name    string
}

// ExtractPictures returns the pictures anchored in the named sheet's drawing,
// in drawing document order. Pictures inside absolute anchors have no cell
// and are skipped. A sheet without a drawing yields no pictures.
func ExtractPictures(xlsxPath, sheetName string) ([]models.EmbeddedImage, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	drawingPath, ok, err := sheetDrawingPath(&r.Reader, sheetName)
	if err != nil || !ok {
		return nil, err
	}

	drawingXML, err := readZipFile(&r.Reader, drawingPath)
	if err != nil {
		return nil, fmt.Errorf("read drawing %s: %w", drawingPath, err)
	}
	refs := parseDrawingPictures(drawingXML)
	if len(refs) == 0 {
		return nil, nil
	}

	media, err := readRelationships(&r.Reader, drawingPath, "/image")
	if err != nil {
		return nil, fmt.Errorf("read drawing relationships: %w", err)
	}
	drawingDir := path.Dir(drawingPath)

	images := make([]models.EmbeddedImage, 0, len(refs))
	for i, ref := range refs {
		rel, ok := media[ref.embedID]
		if !ok {
			continue
		}
		mediaPath := resolveRelativePath(rel.Target, drawingDir)
		data, err := readZipFile(&r.Reader, mediaPath)
		if err != nil {
			continue
		}
		images = append(images, models.EmbeddedImage{
			Anchor:   ref.from,
			Format:   strings.TrimPrefix(path.Ext(mediaPath), "."),
			Data:     data,
			Position: i,
			Name:     ref.name,
		})
	}
	return images, nil
}

// parseDrawingPictures collects picture anchors from drawing XML.
func parseDrawingPictures(data []byte) []pictureRef {
	var results []pictureRef

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor":
				results = append(results, parseAnchor(decoder)...)
			}
		}
	}

	return results
}

// parseAnchor reads one cell anchor. Every picture inside it, including
// pictures nested in group shapes, shares the anchor's from-cell.
func parseAnchor(decoder *xml.Decoder) []pictureRef {
	var (
		from    models.Anchor
		results []pictureRef
	)
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				from = parseFrom(decoder, &t)
				depth--
			case "pic":
				if ref, ok := parsePicture(decoder); ok {
					results = append(results, ref)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	for i := range results {
		results[i].from = from
	}
	return results
}

// parseFrom decodes the 0-based col and row of an anchor's from element.
func parseFrom(decoder *xml.Decoder, start *xml.StartElement) models.Anchor {
	var from struct {
		Col int `xml:"col"`
		Row int `xml:"row"`
	}
	if err := decoder.DecodeElement(&from, start); err != nil {
		return models.Anchor{}
	}
	return models.Anchor{Row: from.Row, Col: from.Col}
}

// parsePicture reads a pic element for its name and blip relationship id.
func parsePicture(decoder *xml.Decoder) (pictureRef, bool) {
	var ref pictureRef
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				for _, attr := range t.Attr {
					if attr.Name.Local == "name" {
						ref.name = attr.Value
					}
				}
			case "blip":
				for _, attr := range t.Attr {
					if attr.Name.Local == "embed" {
						ref.embedID = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return ref, ref.embedID != ""
}

// relationship is one entry of an OPC .rels part.
type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// parseRelationships returns the internal relationships whose type ends in
// kind, e.g. "/image" or "/drawing", keyed by id.
func parseRelationships(data []byte, kind string) (map[string]relationship, error) {
	var part struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &part); err != nil {
		return nil, err
	}
	result := make(map[string]relationship)
	for _, rel := range part.Relationships {
		if strings.EqualFold(rel.TargetMode, "External") {
			continue
		}
		if strings.HasSuffix(strings.ToLower(rel.Type), kind) {
			result[rel.ID] = rel
		}
	}
	return result, nil
}

// readRelationships reads the .rels part that belongs to partPath.
func readRelationships(r *zip.Reader, partPath, kind string) (map[string]relationship, error) {
	relsPath := path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")
	data, err := readZipFile(r, relsPath)
	if err != nil {
		return nil, err
	}
	rels, err := parseRelationships(data, kind)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relsPath, err)
	}
	return rels, nil
}

// sheetDrawingPath follows workbook -> worksheet -> drawing relationships for
// one sheet. ok is false when the sheet has no drawing.
func sheetDrawingPath(r *zip.Reader, sheetName string) (drawingPath string, ok bool, err error) {
	const workbookPath = "xl/workbook.xml"

	workbookXML, err := readZipFile(r, workbookPath)
	if err != nil {
		return "", false, fmt.Errorf("read workbook: %w", err)
	}
	var workbook struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"id,attr"`
		} `xml:"sheets>sheet"`
	}
	if err := xml.Unmarshal(workbookXML, &workbook); err != nil {
		return "", false, fmt.Errorf("parse workbook: %w", err)
	}

	worksheets, err := readRelationships(r, workbookPath, "/worksheet")
	if err != nil {
		return "", false, fmt.Errorf("read workbook relationships: %w", err)
	}

	for _, sheet := range workbook.Sheets {
		if sheet.Name != sheetName {
			continue
		}
		rel, found := worksheets[sheet.RID]
		if !found {
			return "", false, nil
		}
		sheetPath := resolveRelativePath(rel.Target, path.Dir(workbookPath))
		drawings, err := readRelationships(r, sheetPath, "/drawing")
		if errors.Is(err, errPartNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		// A worksheet has at most one drawing part.
		for _, d := range drawings {
			drawingPath = resolveRelativePath(d.Target, path.Dir(sheetPath))
		}
		return drawingPath, drawingPath != "", nil
	}
	return "", false, nil
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s", errPartNotFound, name)
}

// resolveRelativePath resolves a relationship target against the directory of
// the part that owns the relationship. Absolute targets are package-rooted.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(baseDir, target))
}
