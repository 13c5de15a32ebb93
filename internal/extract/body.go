package extract

import (
	"encoding/base64"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// ExtractBody returns the plain-text body of an email message.
//
// Multipart messages are walked depth-first: every text/plain and text/html
// leaf part is collected, attachments are skipped, and plain text wins
// whenever at least one plain part exists. HTML is only a fallback because
// GitHub notification HTML loses the diff-style lines the content
// extractors depend on.
func ExtractBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content type: read as plain text.
		body, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return "", domain.ErrInvalidInput
		}
		return string(body), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		var plainParts, htmlParts []string
		collectParts(msg.Body, params["boundary"], &plainParts, &htmlParts)

		if len(plainParts) > 0 {
			return strings.Join(plainParts, "\n"), nil
		}
		if len(htmlParts) > 0 {
			return strings.Join(htmlParts, "\n"), nil
		}
		return "", nil
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return "", domain.ErrInvalidInput
	}
	text := decodeTransfer(string(body), msg.Header.Get("Content-Transfer-Encoding"))

	switch mediaType {
	case "text/html":
		return CleanHTML(text), nil
	case "text/plain":
		return text, nil
	default:
		return "", nil
	}
}

// collectParts walks one multipart level, recursing into nested multiparts.
// Both accumulators are shared across the whole walk so the plain-over-HTML
// preference is decided once for the full message, not per nesting level.
func collectParts(r io.Reader, boundary string, plainParts, htmlParts *[]string) {
	if boundary == "" {
		return
	}

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			return
		}

		if strings.Contains(strings.ToLower(part.Header.Get("Content-Disposition")), "attachment") {
			part.Close()
			continue
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}

		if strings.HasPrefix(mediaType, "multipart/") {
			collectParts(part, params["boundary"], plainParts, htmlParts)
			part.Close()
			continue
		}

		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}
		text := decodeTransfer(string(content), part.Header.Get("Content-Transfer-Encoding"))

		switch mediaType {
		case "text/plain":
			*plainParts = append(*plainParts, text)
		case "text/html":
			*htmlParts = append(*htmlParts, CleanHTML(text))
		}
	}
}

// decodeTransfer reverses a Content-Transfer-Encoding. The multipart reader
// already decodes quoted-printable parts transparently (and hides the header
// when it does), so this mostly sees base64 parts and top-level
// quoted-printable bodies. Content that fails to decode is returned as-is.
func decodeTransfer(body, encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		cleaned := strings.NewReplacer("\r", "", "\n", "").Replace(body)
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return body
		}
		return string(decoded)
	case "quoted-printable":
		decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
		if err != nil {
			return body
		}
		return string(decoded)
	default:
		return body
	}
}

// CleanHTML reduces an HTML fragment to readable text: script and style
// elements are dropped with their content, remaining tags are removed,
// entities decoded, and blank lines discarded.
func CleanHTML(s string) string {
	s = scriptRe.ReplaceAllString(s, "")
	s = styleRe.ReplaceAllString(s, "")

	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}

	text := html.UnescapeString(result.String())
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// decodeHeader decodes RFC 2047 encoded header words.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}
