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
	"path/filepath"
	"strings"
)

// PresetName selects a default set of output formats.
type PresetName string

const (
	PresetPrint  PresetName = "print"
	PresetScreen PresetName = "screen"
	PresetAll    PresetName = "all"
)

// BatchOptions controls exporting one table to several formats at once.
// Files are written as <OutDir>/<Base>.<format>.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: pdf, png; empty means preset defaults
	OutDir  string
	Base    string
	PDF     PDFOptions
	PNG     PNGOptions
}

// Batch writes t in every requested format and returns the written paths.
func Batch(t Table, opt BatchOptions) ([]string, error) {
	if strings.TrimSpace(opt.Base) == "" {
		return nil, fmt.Errorf("batch export needs a base file name")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(opt.OutDir, opt.Base+"."+f)
		var err error
		switch f {
		case "pdf":
			err = ExportTablePDF(t, out, opt.PDF)
		case "png":
			err = ExportTablePNG(t, out, opt.PNG)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
		if err != nil {
			return written, fmt.Errorf("%s export: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetScreen:
		return []string{"png"}
	case PresetAll:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}
