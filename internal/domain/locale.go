package domain

import (
	"sort"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a caller does not ask for a locale.
const DefaultLocale = "en"

// LocalizedText maps a locale code (e.g. "en", "it") to display text.
type LocalizedText map[string]string

// Clone copies the map.
func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Resolve returns the text for the locale that best matches the requested one.
// English wins when nothing matches; text with no parseable locale keys falls back to the
// first key in sorted order.
func (t LocalizedText) Resolve(locale string) string {
	if len(t) == 0 {
		return ""
	}
	if v, ok := t[locale]; ok && v != "" {
		return v
	}

	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		supported []language.Tag
		byIndex   []string
	)
	if _, ok := t[DefaultLocale]; ok {
		supported = append(supported, language.English)
		byIndex = append(byIndex, DefaultLocale)
	}
	for _, k := range keys {
		if k == DefaultLocale {
			continue
		}
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		byIndex = append(byIndex, k)
	}
	if len(supported) == 0 {
		return t[keys[0]]
	}

	want := language.English
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			want = tag
		}
	}
	_, idx, _ := language.NewMatcher(supported).Match(want)
	return t[byIndex[idx]]
}
