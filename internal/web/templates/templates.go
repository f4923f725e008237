// Package templates renders the HTML fragments returned to HTMX clients.
//
// Components live in .templ files; regenerate the _templ.go files with
// `templ generate` after editing them.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/conventory/internal/core"
)

func reportStatus(result *core.ImportResult) string {
	switch {
	case result.ValidateOnly && result.Success:
		return "Validation passed, nothing was saved"
	case result.ValidateOnly:
		return "Validation found problems, nothing was saved"
	case !result.Success:
		return "Import finished with errors"
	}
	return "Import complete"
}

func reportClass(result *core.ImportResult) string {
	if result.Success {
		return "report-success"
	}
	return "report-partial"
}

// rowLabel shows "-" for errors not tied to a data row.
func rowLabel(row int) string {
	if row <= 0 {
		return "-"
	}
	return strconv.Itoa(row)
}
