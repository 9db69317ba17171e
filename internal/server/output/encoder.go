// Package output serializes report rows to files. Rows are always a slice
// of flat structs from the models package; field tags drive every format.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/roomstats/internal/common"
	"github.com/dmitrijs2005/roomstats/internal/server/config"
	"github.com/xuri/excelize/v2"
)

// Encoder writes a named report in one file format.
type Encoder interface {
	Encode(w io.Writer, name string, rows any) error
	Extension() string
	ContentType() string
}

// NewEncoder returns the encoder for format, one of the config.Format*
// constants.
func NewEncoder(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return JSONEncoder{}, nil
	case config.FormatXML:
		return XMLEncoder{}, nil
	case config.FormatXLSX:
		return XLSXEncoder{}, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownFormat, format)
}

type JSONEncoder struct{}

func (JSONEncoder) Extension() string   { return "json" }
func (JSONEncoder) ContentType() string { return "application/json" }

func (JSONEncoder) Encode(w io.Writer, _ string, rows any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// XMLDocument is the root element of an XML report:
//
//	<report name="room_list"><row>...</row></report>
type XMLDocument struct {
	XMLName xml.Name `xml:"report"`
	Name    string   `xml:"name,attr"`
	Rows    any      `xml:"row"`
}

// NewXMLDocument wraps rows so they marshal under a single root.
func NewXMLDocument(name string, rows any) XMLDocument {
	return XMLDocument{Name: name, Rows: rows}
}

type XMLEncoder struct{}

func (XMLEncoder) Extension() string   { return "xml" }
func (XMLEncoder) ContentType() string { return "application/xml" }

func (XMLEncoder) Encode(w io.Writer, name string, rows any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(NewXMLDocument(name, rows)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type XLSXEncoder struct{}

func (XLSXEncoder) Extension() string { return "xlsx" }
func (XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Encode writes one sheet named after the report: a header row built from
// the json tags, then one row per element.
func (XLSXEncoder) Encode(w io.Writer, name string, rows any) error {
	header, values, err := table(rows)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := name
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, v := range values {
		if err := setRow(f, sheet, i+2, v); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx row %d: %w", row, err)
	}
	return nil
}

// table flattens a slice of structs into a header and rows of cell values.
func table(rows any) ([]any, [][]any, error) {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return nil, nil, fmt.Errorf("%w: %T", common.ErrUnsupportedType, rows)
	}
	t := v.Type().Elem()
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w: %T", common.ErrUnsupportedType, rows)
	}

	var fields []int
	var header []any
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		col := sf.Name
		if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" {
			if tag == "-" {
				continue
			}
			col = tag
		}
		fields = append(fields, i)
		header = append(header, col)
	}

	values := make([][]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		row := make([]any, 0, len(fields))
		for _, fi := range fields {
			row = append(row, item.Field(fi).Interface())
		}
		values = append(values, row)
	}

	return header, values, nil
}
