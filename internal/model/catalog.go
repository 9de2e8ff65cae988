package model

// Language is a reference entity describing a programming language a snippet
// can be tagged with. Seeded once from the highlighting library's lexer
// catalog, immutable afterwards. Names are matched case-insensitively at the
// API boundary.
type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Style is a reference entity describing an HTML display style. Seeded from
// the highlighting library's style catalog, immutable afterwards.
type Style struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
