package conceptcard

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a user interface language.
type Locale string

const (
	// LocaleEnglish is English.
	LocaleEnglish Locale = "en"
	// LocaleChinese is Simplified Chinese.
	LocaleChinese Locale = "zh"
)

// supportedTags is ordered so that index 0 is the fallback.
var supportedTags = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var localeMatcher = language.NewMatcher(supportedTags)

func localeForIndex(i int) Locale {
	if i == 1 {
		return LocaleChinese
	}
	return LocaleEnglish
}

// ParseLocale maps a language tag such as "zh-CN", "zh_Hans" or "en-GB" to a
// supported locale. Unknown or empty input yields English.
func ParseLocale(s string) Locale {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return LocaleEnglish
	}
	tag, err := language.Parse(s)
	if err != nil {
		return LocaleEnglish
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return LocaleEnglish
	}
	return localeForIndex(idx)
}

// MatchAcceptLanguage picks a locale from an HTTP Accept-Language header.
func MatchAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return LocaleEnglish
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return LocaleEnglish
	}
	return localeForIndex(idx)
}

// HTMLLang returns the value for an HTML lang attribute.
func (l Locale) HTMLLang() string {
	if l == LocaleChinese {
		return "zh-CN"
	}
	return "en"
}

// localized picks between an English and a Chinese string.
func localized(loc Locale, en, zh string) string {
	if loc == LocaleChinese {
		return zh
	}
	return en
}
