// Package templates renders the HTML pages of the upload UI.
//
// Pages are templ components: edit the .templ files and run `templ generate`.
package templates

import (
	"strconv"
	"strings"
)

// Flash categories, matching the alert styles in the stylesheet.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next page render. Multi-line
// messages render one line per list item.
type Flash struct {
	Category string
	Message  string
}

// ConnectForm pre-fills the connect page.
type ConnectForm struct {
	Host     string
	Port     int
	User     string
	Database string
}

// flashCategory maps unknown categories to info.
func flashCategory(category string) string {
	switch category {
	case FlashSuccess, FlashDanger, FlashWarning, FlashInfo:
		return category
	default:
		return FlashInfo
	}
}

func flashLines(message string) []string {
	return strings.Split(message, "\n")
}

func portValue(port int) string {
	if port == 0 {
		return ""
	}
	return strconv.Itoa(port)
}

// acceptList renders extensions as an accept attribute, e.g. ".csv,.xlsx".
func acceptList(exts []string) string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = "." + strings.TrimPrefix(e, ".")
	}
	return strings.Join(out, ",")
}
