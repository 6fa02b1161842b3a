// Package engine is the client side of the moggie mail engine boundary.
// It issues the four request kinds the controller needs (search, show,
// email synthesis, email-send) and turns engine output into result rows
// or filesystem message trees. The engine itself is an external process.
package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/hpungsan/mog/internal/errors"
	"github.com/hpungsan/mog/internal/extproc"
)

// Client invokes the external mail engine binary.
type Client struct {
	Bin     string
	Run     extproc.Runner
	Extract extproc.Extractor
}

// msgdirs archives nest message files three directories deep; stripping
// them lands message.txt directly under the extraction target.
const msgdirsStripComponents = 3

// Search runs a search and returns the raw text table. Empty output is a
// valid "no matches" result, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	out, err := c.Run.Output(ctx, nil, c.Bin, "search", query)
	if err != nil {
		return nil, errors.NewEngine("search", err)
	}
	return out, nil
}

// SearchFormat runs a search with an explicit output format and indent,
// returning the raw stream (used for msgdirs materialization).
func (c *Client) SearchFormat(ctx context.Context, query, format, indent string) ([]byte, error) {
	out, err := c.Run.Output(ctx, nil, c.Bin, "search", query,
		"--format="+format, "--indent="+indent)
	if err != nil {
		return nil, errors.NewEngine("search", err)
	}
	return out, nil
}

// Show renders the messages matched by query for display. Empty output is
// an engine error: show is only invoked against a known-non-empty scope.
func (c *Client) Show(ctx context.Context, query string) ([]byte, error) {
	out, err := c.Run.Output(ctx, nil, c.Bin, "show", query)
	if err != nil {
		return nil, errors.NewEngine("show", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, errors.NewEngine("show", nil)
	}
	return out, nil
}

// SynthesizeKind selects which message the email operation generates.
type SynthesizeKind string

const (
	KindCompose SynthesizeKind = "compose" // blank template
	KindReply   SynthesizeKind = "reply"   // reply to a scoped query
	KindForward SynthesizeKind = "forward" // forward a scoped query
)

// SynthesizeRequest carries the parameters of one email generation call.
type SynthesizeRequest struct {
	Kind    SynthesizeKind
	Query   string // scoped query for reply/forward
	Subject string
	From    string
	To      string
	Message string // free-text snippet added to the body
	HTML    bool   // generate an HTML part
}

// Synthesize asks the engine to generate a message transport stream
// (RFC822) for a new composition, a reply, or a forward.
func (c *Client) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	args := []string{"email", "--format=rfc822"}
	switch req.Kind {
	case KindReply:
		args = append(args, "--reply="+req.Query)
	case KindForward:
		args = append(args, "--forward="+req.Query)
	}
	if req.Subject != "" {
		args = append(args, "--subject="+req.Subject)
	}
	if req.From != "" {
		args = append(args, "--from="+req.From)
	}
	if req.To != "" {
		args = append(args, "--to="+req.To)
	}
	if req.Message != "" {
		args = append(args, "--message="+req.Message)
	}
	if !req.HTML {
		args = append(args, "--html=N")
	}

	out, err := c.Run.Output(ctx, nil, c.Bin, args...)
	if err != nil {
		return nil, errors.NewEngine("email", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, errors.NewEngine("email", nil)
	}
	return out, nil
}

// Send submits a finished message to the engine for delivery.
func (c *Client) Send(ctx context.Context, message io.Reader) error {
	_, err := c.Run.Output(ctx, message, c.Bin, "email-send", "--format=rfc822")
	if err != nil {
		return errors.NewEngine("email-send", err)
	}
	return nil
}

// MaterializeTree converts a transport stream into a message tree rooted
// at dir: the stream is staged as a mailbox file, rendered through the
// engine's msgdirs exporter, and unpacked by the archive extractor.
func (c *Client) MaterializeTree(ctx context.Context, transport []byte, dir string) error {
	staging, err := os.MkdirTemp("", "mog-mbox-")
	if err != nil {
		return errors.NewEngine("materialize", err)
	}
	defer os.RemoveAll(staging)

	mbox := filepath.Join(staging, "transport")
	if err := os.WriteFile(mbox, transport, 0o600); err != nil {
		return errors.NewEngine("materialize", err)
	}

	archive, err := c.SearchFormat(ctx, "mailbox:"+mbox, "msgdirs", "")
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(archive)) == 0 {
		return errors.NewEngine("materialize", nil)
	}

	if err := c.Extract.Extract(ctx, bytes.NewReader(archive), dir, msgdirsStripComponents); err != nil {
		return errors.NewEngine("materialize", err)
	}
	return nil
}

// ExtractInto runs a msgdirs-format search for query and unpacks the
// result under dir. Used by the download operation, where the matched
// messages are already indexed.
func (c *Client) ExtractInto(ctx context.Context, query, dir string) error {
	archive, err := c.SearchFormat(ctx, query, "msgdirs", "")
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(archive)) == 0 {
		return errors.NewEmptyDownload()
	}
	if err := c.Extract.Extract(ctx, bytes.NewReader(archive), dir, msgdirsStripComponents); err != nil {
		return errors.NewEngine("extract", err)
	}
	return nil
}
