package inbox

import (
	"io"
	"net/mail"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Preview extracts up to n runes of readable text from a raw RFC822
// message. HTML bodies are flattened via the DOM; anything unparseable
// yields an empty preview rather than an error.
func Preview(raw []byte, n int) string {
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(msg.Body, 256<<10))
	if err != nil {
		return ""
	}

	text := string(body)
	if looksLikeHTML(text) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n]) + "…"
	}
	return text
}

func looksLikeHTML(s string) bool {
	l := strings.ToLower(s)
	return strings.Contains(l, "<html") || strings.Contains(l, "<body") || strings.Contains(l, "<div") || strings.Contains(l, "<td")
}
