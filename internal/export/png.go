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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PNGOptions controls the raster table snapshot.
type PNGOptions struct {
	Padding   int        // cell padding in pixels, default 6
	GridColor color.RGBA // zero means light grey
}

var (
	white     = color.RGBA{255, 255, 255, 255}
	black     = color.RGBA{0, 0, 0, 255}
	headerBG  = color.RGBA{230, 230, 230, 255}
	defaultGr = color.RGBA{180, 180, 180, 255}
)

// WriteTablePNG renders t with the fixed 7x13 face into a PNG image.
func WriteTablePNG(w io.Writer, t Table, opt PNGOptions) error {
	img := renderTable(t, opt)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportTablePNG writes t to outPath, creating parent directories.
func ExportTablePNG(t Table, outPath string, opt PNGOptions) error {
	f, err := createOut(outPath)
	if err != nil {
		return err
	}
	if err := WriteTablePNG(f, t, opt); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func renderTable(t Table, opt PNGOptions) *image.RGBA {
	if opt.Padding <= 0 {
		opt.Padding = 6
	}
	grid := opt.GridColor
	if grid == (color.RGBA{}) {
		grid = defaultGr
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineH := (metrics.Ascent + metrics.Descent).Ceil()
	rowH := lineH + 2*opt.Padding
	pad := opt.Padding

	cols := t.columns()
	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols; i++ {
			if w := font.MeasureString(face, t.cell(row, i)).Ceil() + 2*pad; w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, r := range t.Rows {
		measure(r)
	}
	tableW := 1
	for _, w := range widths {
		tableW += w
	}

	titleH := 0
	if t.Title != "" {
		titleH = rowH
		if tw := font.MeasureString(face, t.Title).Ceil() + 2*pad; tw > tableW {
			tableW = tw
		}
	}
	imgW := tableW + 1
	imgH := titleH + rowH*(len(t.Rows)+1) + 1

	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Src: image.NewUniform(black), Face: face}

	text := func(s string, x, y int) {
		d.Dot = fixed.P(x+pad, y+pad+metrics.Ascent.Ceil())
		d.DrawString(s)
	}
	if t.Title != "" {
		text(t.Title, 0, 0)
	}
	y := titleH
	fillRect(img, 0, y, tableW-1, y+rowH-1, headerBG)
	drawRow := func(row []string, y int) {
		x := 0
		for i := 0; i < cols; i++ {
			strokeRect(img, x, y, x+widths[i], y+rowH, grid)
			text(t.cell(row, i), x, y)
			x += widths[i]
		}
	}
	drawRow(t.Header, y)
	for _, r := range t.Rows {
		y += rowH
		drawRow(r, y)
	}
	return img
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
