package payroll

import "strings"

// ResolveLanguage picks the UI language. preferred is the user agent's
// language preference: an Accept-Language header or a POSIX locale such
// as "es_ES.UTF-8". With AutoEnglish on, any known non-Spanish preference
// switches to English. An empty preference keeps the configured language.
func ResolveLanguage(cfg Config, preferred string) Language {
	if cfg.AutoEnglish {
		if tag := primaryTag(preferred); tag != "" && !strings.HasPrefix(tag, "es") {
			return LanguageEnglish
		}
	}
	if cfg.Language == "" {
		return LanguageSpanish
	}
	return cfg.Language
}

// primaryTag returns the first, lower-cased tag of an Accept-Language
// value or locale string, without quality or encoding suffixes.
func primaryTag(s string) string {
	s, _, _ = strings.Cut(s, ",")
	s, _, _ = strings.Cut(s, ";")
	s, _, _ = strings.Cut(s, ".")
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "*" || s == "c" || s == "posix" {
		return ""
	}
	return s
}
