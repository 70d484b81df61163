package models

import (
	"path"
	"strings"
)

// ReportObjectName is where an archived report is stored:
// reports/<analysis_id>/<filename>.
func ReportObjectName(analysisID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "report.csv"
	}
	return path.Join("reports", analysisID, name)
}
