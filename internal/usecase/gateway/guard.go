package gateway

import (
	"regexp"
	"strings"
)

var leadingHeading = regexp.MustCompile(`^ {0,3}#{1,6}[ \t]+`)

// GuardLeadingHeading strips a heading marker from the first line of the
// generated text when the source's first line carries none. Models sometimes
// promote the opening line to a title; structure must mirror the source, so
// the invented marker goes. Lines past the first are never touched, and a
// source that opens with its own heading passes the output through unchanged.
func GuardLeadingHeading(source, generated string) string {
	if firstLine(source) == "" || leadingHeading.MatchString(firstLine(source)) {
		return generated
	}
	first, rest, cut := strings.Cut(generated, "\n")
	if !leadingHeading.MatchString(first) {
		return generated
	}
	first = leadingHeading.ReplaceAllString(first, "")
	if cut {
		return first + "\n" + rest
	}
	return first
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}
