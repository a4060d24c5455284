package parser

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// worksheetXML is the subset of a worksheet part excelize does not expose:
// column format spans, per-row formats, raw cell typing and formula
// sharing attributes.
type worksheetXML struct {
	Cols      *colsXML     `xml:"cols"`
	SheetData sheetDataXML `xml:"sheetData"`
}

type colsXML struct {
	Col []colXML `xml:"col"`
}

type colXML struct {
	Min   int `xml:"min,attr"`
	Max   int `xml:"max,attr"`
	Style int `xml:"style,attr"`
}

type sheetDataXML struct {
	Row []rowXML `xml:"row"`
}

type rowXML struct {
	R            int       `xml:"r,attr"`
	S            int       `xml:"s,attr"`
	CustomFormat bool      `xml:"customFormat,attr"`
	C            []cellXML `xml:"c"`
}

type cellXML struct {
	R  string      `xml:"r,attr"`
	S  int         `xml:"s,attr"`
	T  string      `xml:"t,attr"`
	F  *formulaXML `xml:"f"`
	V  string      `xml:"v"`
	IS *richXML    `xml:"is"`
}

type formulaXML struct {
	Content string `xml:",chardata"`
	T       string `xml:"t,attr"`
	Ref     string `xml:"ref,attr"`
	Si      *int   `xml:"si,attr"`
}

// richXML is either a plain <t> or a list of <r> runs.
type richXML struct {
	T string `xml:"t"`
	R []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (r *richXML) text() string {
	if r == nil {
		return ""
	}
	if len(r.R) == 0 {
		return r.T
	}
	var b strings.Builder
	b.WriteString(r.T)
	for _, run := range r.R {
		b.WriteString(run.T)
	}
	return b.String()
}

type sstXML struct {
	SI []richXML `xml:"si"`
}

// readZipFile returns the content of name, or nil if the part is absent.
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
	return nil, nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	return baseDir + "/" + target
}

// parseWorkbookSheets maps relationship ids to sheet names.
func parseWorkbookSheets(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, rID string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					name = attr.Value
				case "id":
					rID = attr.Value
				}
			}
			if name != "" && rID != "" {
				result[rID] = name
			}
		}
	}
	return result
}

// parseWorkbookRels maps sheet names to worksheet part paths.
func parseWorkbookRels(data []byte, sheetsInfo map[string]string) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if sheetName, ok := sheetsInfo[rID]; ok && strings.Contains(strings.ToLower(target), "worksheet") {
				result[sheetName] = resolveRelativePath(target, "xl")
			}
		}
	}
	return result
}

// worksheetPaths returns the worksheet part path of every sheet.
func worksheetPaths(r *zip.Reader) (map[string]string, error) {
	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return map[string]string{}, err
	}
	sheetsInfo := parseWorkbookSheets(workbookXML)
	relsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return map[string]string{}, err
	}
	return parseWorkbookRels(relsXML, sheetsInfo), nil
}

// readSharedStrings returns the shared-string table in file order.
func readSharedStrings(r *zip.Reader) ([]string, error) {
	data, err := readZipFile(r, "xl/sharedStrings.xml")
	if err != nil || data == nil {
		return nil, err
	}
	var sst sstXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, err
	}
	out := make([]string, len(sst.SI))
	for i := range sst.SI {
		out[i] = sst.SI[i].text()
	}
	return out, nil
}

func readWorksheet(r *zip.Reader, path string) (*worksheetXML, error) {
	data, err := readZipFile(r, path)
	if err != nil {
		return nil, err
	}
	var ws worksheetXML
	if data == nil {
		return &ws, nil
	}
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}
