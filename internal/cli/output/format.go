package output

import (
	"strconv"
	"strings"
)

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a bold markdown key followed by its value.
func FormatKeyValue(key, value string) string {
	return "**" + key + ":** " + value
}

// FormatCodeBlock wraps content in a fenced code block.
func FormatCodeBlock(lang, content string) string {
	return "```" + lang + "\n" + strings.TrimRight(content, "\n") + "\n```"
}

// FormatLink returns a markdown link, or just the text when url is empty.
func FormatLink(text, url string) string {
	if url == "" {
		return text
	}
	return "[" + text + "](" + url + ")"
}

// FormatLevel renders an enforcement level, "-" when missing.
func FormatLevel(level int) string {
	if level == 0 {
		return "-"
	}
	return strconv.Itoa(level)
}

// FormatYear renders a year, "-" when missing.
func FormatYear(year int) string {
	if year == 0 {
		return "-"
	}
	return strconv.Itoa(year)
}

// OrDash returns s, or "-" when s is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
