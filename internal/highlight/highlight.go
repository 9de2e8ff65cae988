// Package highlight renders snippet code to HTML through the chroma
// library. It also exposes chroma's lexer and style catalogs, which are the
// source of truth for the seeded language and style reference entities.
package highlight

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Languages returns the names of every language chroma can tokenize.
func Languages() []string {
	return lexers.Names(false)
}

// Styles returns the names of every display style chroma ships.
func Styles() []string {
	return styles.Names()
}

// Render writes a standalone HTML document with code highlighted as
// language and coloured with style. Unknown names fall back to plain text
// and the default style rather than failing: the API has already validated
// both names against the seeded catalogs, so a miss here only happens if
// the catalogs and the linked chroma version drift apart.
func Render(w io.Writer, code, language, style string, lineNumbers bool) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	st := styles.Get(style)
	if st == nil {
		st = styles.Fallback
	}

	formatter := html.New(
		html.Standalone(true),
		html.WithLineNumbers(lineNumbers),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("highlight: tokenizing code: %w", err)
	}

	if err := formatter.Format(w, st, iterator); err != nil {
		return fmt.Errorf("highlight: formatting code: %w", err)
	}

	return nil
}
