// Package extract pulls normalized text out of document files along with a
// page breakpoint table where the format has pages (PDF) or page-like units
// (spreadsheet sheets). Formats without pages yield an empty table and
// chunks keep an unset page.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"

	"doctrine-rag/internal/models"
)

// Extracted is a document's concatenated text plus the breakpoint table
// mapping character offsets to page numbers.
type Extracted struct {
	Text        string
	Breakpoints []models.Breakpoint
}

// File extracts text from a document by extension.
func File(path string) (*Extracted, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return parsePDF(path)
	case ".docx":
		return parseDOCX(path)
	case ".xlsx":
		return parseXLSX(path)
	case ".ods":
		return parseODS(path)
	case ".md", ".markdown":
		return parseMarkdown(path)
	case ".txt":
		return parseText(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

// parsePDF joins page texts with "\n\n" and records each page's starting
// offset, so offsets into the joined text resolve back to pages.
func parsePDF(path string) (*Extracted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("reading pdf %s: %w", path, err)
	}

	var parts []string
	var table []models.Breakpoint
	offset := 0
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d of %s: %w", i, path, err)
		}
		table = append(table, models.Breakpoint{Offset: offset, Page: i})
		parts = append(parts, pageText)
		offset += len(pageText) + 2 // the "\n\n" join below
	}
	return &Extracted{Text: strings.Join(parts, "\n\n"), Breakpoints: table}, nil
}

func parseDOCX(path string) (*Extracted, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading docx %s: %w", path, err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var parts []string
	for _, paragraph := range strings.Split(content, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		parts = append(parts, paragraph)
	}
	// DOCX has no page information; pages stay unset.
	return &Extracted{Text: strings.Join(parts, "\n\n")}, nil
}

// parseXLSX treats each sheet as a page.
func parseXLSX(path string) (*Extracted, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading xlsx %s: %w", path, err)
	}

	var parts []string
	var table []models.Breakpoint
	offset := 0
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		table = append(table, models.Breakpoint{Offset: offset, Page: sheetNum + 1})
		parts = append(parts, text.String())
		offset += text.Len() + 2
	}
	return &Extracted{Text: strings.Join(parts, "\n\n"), Breakpoints: table}, nil
}

// parseODS treats each sheet as a page.
func parseODS(path string) (*Extracted, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ods %s: %w", path, err)
	}
	defer f.Close()

	var parts []string
	var table []models.Breakpoint
	offset := 0
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		table = append(table, models.Breakpoint{Offset: offset, Page: sheetNum + 1})
		parts = append(parts, text.String())
		offset += text.Len() + 2
	}
	return &Extracted{Text: strings.Join(parts, "\n\n"), Breakpoints: table}, nil
}

func parseMarkdown(path string) (*Extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := markdownToText(data)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown %s: %w", path, err)
	}
	return &Extracted{Text: text}, nil
}

func parseText(path string) (*Extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Extracted{Text: string(data)}, nil
}

// markdownToText walks the goldmark AST and keeps only the text content,
// with block boundaries becoming paragraph breaks.
func markdownToText(src []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(gmtext.NewReader(src))

	var buf strings.Builder
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem:
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
