/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls the PDF table layout. Units are points.
type PDFOptions struct {
	Landscape bool
	FontSize  float64 // default 10
	Margin    float64 // default 36
}

// WriteTablePDF renders t as a paginated PDF table; the header row repeats on every page.
func WriteTablePDF(w io.Writer, t Table, opt PDFOptions) error {
	if opt.FontSize <= 0 {
		opt.FontSize = 10
	}
	if opt.Margin <= 0 {
		opt.Margin = 36
	}
	orientation := "P"
	if opt.Landscape {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "pt", "A4", "")
	pdf.SetMargins(opt.Margin, opt.Margin, opt.Margin)
	pdf.SetAutoPageBreak(false, opt.Margin)
	pdf.SetTitle(t.Title, true)
	pdf.SetCreator("GoSalesDesk", false)
	pdf.SetCreationDate(time.Now())

	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", opt.FontSize)

	// Core fonts are cp1252; translate UTF-8 cells before measuring.
	t = translated(t, pdf.UnicodeTranslatorFromDescriptor(""))
	cols := t.columns()
	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*opt.Margin
	widths := columnWidths(pdf, t, cols, usable, opt.FontSize)
	rowH := opt.FontSize * 1.8

	header := func() {
		pdf.SetFont("Helvetica", "B", opt.FontSize)
		pdf.SetFillColor(230, 230, 230)
		for i := 0; i < cols; i++ {
			pdf.CellFormat(widths[i], rowH, t.cell(t.Header, i), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(rowH)
		pdf.SetFont("Helvetica", "", opt.FontSize)
	}

	pdf.AddPage()
	if t.Title != "" {
		pdf.SetFont("Helvetica", "B", opt.FontSize+4)
		pdf.CellFormat(usable, rowH*1.2, t.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", opt.FontSize)
	}
	header()
	for _, r := range t.Rows {
		if pdf.GetY()+rowH > pageH-opt.Margin {
			pdf.AddPage()
			header()
		}
		for i := 0; i < cols; i++ {
			pdf.CellFormat(widths[i], rowH, t.cell(r, i), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(rowH)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportTablePDF writes t to outPath, creating parent directories.
func ExportTablePDF(t Table, outPath string, opt PDFOptions) error {
	f, err := createOut(outPath)
	if err != nil {
		return err
	}
	if err := WriteTablePDF(f, t, opt); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// columnWidths sizes each column to its widest cell, scaled down to fit usable.
func columnWidths(pdf *gofpdf.Fpdf, t Table, cols int, usable, size float64) []float64 {
	const pad = 8.0
	widths := make([]float64, cols)
	measure := func(row []string) {
		for i := 0; i < cols; i++ {
			if w := pdf.GetStringWidth(t.cell(row, i)) + pad; w > widths[i] {
				widths[i] = w
			}
		}
	}
	pdf.SetFont("Helvetica", "B", size)
	measure(t.Header)
	pdf.SetFont("Helvetica", "", size)
	for _, r := range t.Rows {
		measure(r)
	}
	var total float64
	for _, w := range widths {
		total += w
	}
	if total > usable && total > 0 {
		k := usable / total
		for i := range widths {
			widths[i] *= k
		}
	}
	return widths
}

func translated(t Table, tr func(string) string) Table {
	out := Table{Title: tr(t.Title), Header: make([]string, len(t.Header)), Rows: make([][]string, len(t.Rows))}
	for i, h := range t.Header {
		out.Header[i] = tr(h)
	}
	for i, r := range t.Rows {
		row := make([]string, len(r))
		for j, c := range r {
			row[j] = tr(c)
		}
		out.Rows[i] = row
	}
	return out
}
