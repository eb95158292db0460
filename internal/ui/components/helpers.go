// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/util"
)

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	return util.TruncateWidth(s, width)
}

// fmtNumber formats n with thousand separators.
func fmtNumber(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// humanize turns "property_searches" into "Property Searches".
func humanize(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
