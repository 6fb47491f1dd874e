// Package richtext reduces editor HTML to plain text for word counts and
// text export. Chapter content arrives as rich-text markup from the editor.
package richtext

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips markup from editor content, keeping text nodes separated
// by single spaces. Script and style bodies are dropped. Input that is not
// HTML passes through unchanged apart from whitespace normalization.
func PlainText(content string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	var parts []string
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text != "" {
				parts = append(parts, strings.Join(strings.Fields(text), " "))
			}
		}
	}
}

// WordCount counts words in editor content the way the chapter editor's
// live counter does: tags stripped first, empty content counts zero.
func WordCount(content string) int {
	plain := PlainText(content)
	if plain == "" {
		return 0
	}
	return len(strings.Fields(plain))
}

func isSkipped(tag string) bool {
	return tag == "script" || tag == "style"
}
