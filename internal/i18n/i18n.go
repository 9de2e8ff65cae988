// Package i18n picks the localized content for the about page based on the
// request's Accept-Language header.
package i18n

import "golang.org/x/text/language"

// Page is the localized content rendered by the about endpoint.
type Page struct {
	Lang    string
	Title   string
	Message string
}

var pages = map[language.Tag]Page{
	language.English: {
		Lang:    "en",
		Title:   "About",
		Message: "A small pastebin for sharing code snippets.",
	},
	language.French: {
		Lang:    "fr",
		Title:   "À propos",
		Message: "Un petit pastebin pour partager des extraits de code.",
	},
}

// matcher prefers English when nothing acceptable is requested; the order
// of the tags sets the default.
var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
})

// PageFor returns the page content matching an Accept-Language header
// value. Unparsable or unsupported values fall back to English.
func PageFor(acceptLanguage string) Page {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		tags = nil
	}
	_, index, _ := matcher.Match(tags...)

	switch index {
	case 1:
		return pages[language.French]
	default:
		return pages[language.English]
	}
}
