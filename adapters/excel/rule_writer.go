package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"smartcart/domain/core"
	"smartcart/domain/rules"
)

// RuleWriter serializes flat rule rows into an Excel workbook for download
// by dashboard collaborators. It implements ports.RuleExporter.
type RuleWriter struct {
	sheet string
}

// NewRuleWriter creates a rule writer targeting the named sheet.
func NewRuleWriter(sheet string) *RuleWriter {
	if sheet == "" {
		sheet = "Association Rules"
	}
	return &RuleWriter{sheet: sheet}
}

// ExportRules writes one header row plus one row per rule to path. An empty
// rule set still produces a workbook with only the header, so a dashboard
// download always succeeds.
func (w *RuleWriter) ExportRules(ctx context.Context, rows []rules.ExportRow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return core.NewExportError(path, err)
	}

	header := []interface{}{"antecedents", "consequents", "support", "confidence", "lift"}
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return core.NewExportError(path, err)
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return core.NewExportError(path, err)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return core.NewExportError(path, err)
		}
		values := []interface{}{row.Antecedents, row.Consequents, row.Support, row.Confidence, row.Lift}
		if err := f.SetSheetRow(w.sheet, cell, &values); err != nil {
			return core.NewExportError(path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return core.NewExportError(path, fmt.Errorf("save workbook: %w", err))
	}
	return nil
}
