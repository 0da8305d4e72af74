// Package report renders an analysis into a paginated PDF document: a title,
// the imported libraries, then one block per class, function, and loose
// segment showing its code in a fixed-width font and its explanation in a
// proportional one.
package report

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"pydocgen/internal/segment"
)

// WritePDF lays out the analysis for the named script and writes the
// document to outputPath. An analysis with all four collections empty still
// produces a valid document with empty sections.
func WritePDF(analysis *segment.Analysis, scriptName, outputPath string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252-only; translate so model output with typographic
	// quotes or dashes doesn't corrupt the page.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Detailed Script Analysis: "+scriptName), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	// Imports
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Imported Libraries:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, imp := range analysis.Imports {
		pdf.CellFormat(0, 10, tr("- "+imp), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Classes
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Classes:", "", 1, "L", false, 0, "")
	for _, cls := range analysis.Classes {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 10, tr("Class: "+cls.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 10, tr("Methods: "+strings.Join(cls.Methods, ", ")), "", 1, "L", false, 0, "")

		writeCodeBlock(pdf, tr, cls.Code, cls.Explanation)
	}

	// Functions
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Functions:", "", 1, "L", false, 0, "")
	for _, fn := range analysis.Functions {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 10, tr("Function: "+fn.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 10, tr("Parameters: "+strings.Join(fn.Params, ", ")), "", 1, "L", false, 0, "")

		writeCodeBlock(pdf, tr, fn.Code, fn.Explanation)
	}

	// Loose lines
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Other Code:", "", 1, "L", false, 0, "")
	for _, loose := range analysis.Loose {
		writeCodeBlock(pdf, tr, loose.Code, loose.Explanation)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// writeCodeBlock emits one code-plus-explanation block.
func writeCodeBlock(pdf *fpdf.Fpdf, tr func(string) string, code, explanation string) {
	pdf.SetFont("Courier", "", 9)
	pdf.MultiCell(0, 5, tr("Code:\n"+code), "", "L", false)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr("Explanation:\n"+explanation), "", "L", false)
	pdf.Ln(5)
}
