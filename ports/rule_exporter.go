package ports

import (
	"context"

	"smartcart/domain/rules"
)

// RuleExporter writes flat rule rows for external collaborators (dashboards,
// downloads). The rows are already rendered; exporters only serialize.
type RuleExporter interface {
	// ExportRules writes the rows to the given destination path.
	ExportRules(ctx context.Context, rows []rules.ExportRow, path string) error
}
