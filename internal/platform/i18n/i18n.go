// Package i18n defines the languages the worksheet UI supports.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	supported = []language.Tag{
		language.MustParse("zh-CN"),
		language.MustParse("en-US"),
	}
	matcher = language.NewMatcher(supported)
)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it maps to a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return supported[index], true
}

// MatchTags picks the best supported tag for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// LocaleKey returns the catalog key naming tag in the language picker.
func LocaleKey(tag language.Tag) string {
	return "core.lang." + tag.String()
}
