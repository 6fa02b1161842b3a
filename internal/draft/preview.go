package draft

import (
	"bytes"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// PreviewFile is the rendered HTML preview inside a draft directory.
const PreviewFile = "preview.html"

var previewPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%TITLE%</title></head>
<body>
%BODY%</body>
</html>
`

// Preview renders the draft body (the text below the header block) to
// preview.html inside the draft directory and returns its path. The
// message itself is never modified.
func (m *Manager) Preview(d *Draft) (string, error) {
	raw, err := os.ReadFile(d.MessagePath())
	if err != nil {
		return "", err
	}

	_, body := splitHeaders(string(raw))

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", err
	}

	title := extractSubject(string(raw))
	if title == "" {
		title = "(no subject)"
	}

	page := strings.Replace(previewPage, "%TITLE%", html.EscapeString(title), 1)
	page = strings.Replace(page, "%BODY%", buf.String(), 1)

	path := filepath.Join(d.Dir, PreviewFile)
	if err := os.WriteFile(path, []byte(page), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// splitHeaders separates an RFC822-style message into its header block and
// body at the first blank line. A message with no blank line is all body.
func splitHeaders(msg string) (headers, body string) {
	if i := strings.Index(msg, "\n\n"); i >= 0 {
		return msg[:i], msg[i+2:]
	}
	if i := strings.Index(msg, "\r\n\r\n"); i >= 0 {
		return msg[:i], msg[i+4:]
	}
	return "", msg
}
