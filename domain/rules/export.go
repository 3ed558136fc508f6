package rules

import "strings"

// ExportDelimiter joins product names inside an export cell.
const ExportDelimiter = ", "

// ExportRow is the flat serialization of a rule consumed by collaborators:
// antecedents and consequents rendered as delimited product names alongside
// the numeric metrics.
type ExportRow struct {
	Antecedents string  `json:"antecedents"`
	Consequents string  `json:"consequents"`
	Support     float64 `json:"support"`
	Confidence  float64 `json:"confidence"`
	Lift        float64 `json:"lift"`
}

// RenderProducts joins sorted product names into one export cell.
func RenderProducts(names []string) string {
	return strings.Join(names, ExportDelimiter)
}
