package answer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"iframe":   true,
	"svg":      true,
	"template": true,
}

var blockTags = map[string]bool{
	"p":      true,
	"div":    true,
	"li":     true,
	"h1":     true,
	"h2":     true,
	"h3":     true,
	"header": true,
	"footer": true,
	"br":     true,
	"hr":     true,
	"center": true,
	"pre":    true,
}

// htmlText returns the visible text of an html document, one block per line.
func htmlText(r io.Reader, contentType string) (string, error) {
	ur, err := charset.NewReader(r, contentType)
	if err != nil {
		ur = r
	}
	tokenizer := html.NewTokenizer(ur)

	skipDepth := 0
	var text strings.Builder
	writeNL := func() {
		s := text.String()
		if len(s) > 0 && s[len(s)-1] != '\n' {
			text.WriteByte('\n')
		}
	}

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return "", fmt.Errorf("tokenizer error: %w", tokenizer.Err())
		}
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name := strings.ToLower(tokenizer.Token().Data)
			if skipTags[name] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockTags[name] {
				writeNL()
			}
		case html.EndTagToken:
			name := strings.ToLower(tokenizer.Token().Data)
			if skipTags[name] && skipDepth > 0 {
				skipDepth--
			}
			if blockTags[name] {
				writeNL()
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			fields := bytes.Fields(tokenizer.Text())
			if len(fields) == 0 {
				continue
			}
			s := text.String()
			if len(s) > 0 && s[len(s)-1] != '\n' {
				text.WriteByte(' ')
			}
			text.Write(bytes.Join(fields, []byte(" ")))
		}
	}
	return strings.TrimSpace(text.String()), nil
}
