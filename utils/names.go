// utils/names.go
package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName turns a directory-style airline name ("Delta_Airlines") into "Delta Airlines".
func DisplayName(dirName string) string {
	// Casers carry state, so one is built per call.
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(dirName, "_", " "))
}
