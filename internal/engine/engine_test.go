package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/mog/internal/errors"
	"github.com/hpungsan/mog/internal/extproc"
)

type fakeRunner struct {
	onOutput func(call []string, stdin []byte) ([]byte, error)
	calls    [][]string
}

func (f *fakeRunner) Output(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	var in []byte
	if stdin != nil {
		in, _ = io.ReadAll(stdin)
	}
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if f.onOutput == nil {
		return nil, nil
	}
	return f.onOutput(call, in)
}

func (f *fakeRunner) Foreground(_ context.Context, _ string, _ ...string) error { return nil }

func (f *fakeRunner) Page(_ context.Context, _ io.Reader, _ string, _ ...string) error { return nil }

func newClient(run *fakeRunner) *Client {
	return &Client{
		Bin:     "moggie",
		Run:     run,
		Extract: extproc.Extractor{Tar: "tar", Run: run},
	}
}

func TestSearch_EmptyOutputIsNotAnError(t *testing.T) {
	run := &fakeRunner{}
	c := newClient(run)

	out, err := c.Search(context.Background(), "from:nobody")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Search output = %q, want empty", out)
	}

	want := []string{"moggie", "search", "from:nobody"}
	if fmt.Sprint(run.calls[0]) != fmt.Sprint(want) {
		t.Errorf("call = %v, want %v", run.calls[0], want)
	}
}

func TestSearch_NonZeroExitIsEngineError(t *testing.T) {
	run := &fakeRunner{onOutput: func(_ []string, _ []byte) ([]byte, error) {
		return nil, fmt.Errorf("exit status 1")
	}}
	c := newClient(run)

	_, err := c.Search(context.Background(), "in:inbox")
	if !errors.Is(err, errors.ErrEngine) {
		t.Errorf("Search = %v, want ENGINE", err)
	}
}

func TestShow_EmptyOutputIsEngineError(t *testing.T) {
	run := &fakeRunner{}
	c := newClient(run)

	_, err := c.Show(context.Background(), "in:inbox +id:A")
	if !errors.Is(err, errors.ErrEngine) {
		t.Errorf("Show = %v, want ENGINE", err)
	}
}

func TestSynthesize_ArgumentShapes(t *testing.T) {
	run := &fakeRunner{onOutput: func(_ []string, _ []byte) ([]byte, error) {
		return []byte("transport"), nil
	}}
	c := newClient(run)

	cases := []struct {
		name string
		req  SynthesizeRequest
		want []string
	}{
		{
			name: "compose template",
			req:  SynthesizeRequest{Kind: KindCompose},
			want: []string{"moggie", "email", "--format=rfc822", "--html=N"},
		},
		{
			name: "reply",
			req:  SynthesizeRequest{Kind: KindReply, Query: "in:inbox +id:A", From: "me@x.org"},
			want: []string{"moggie", "email", "--format=rfc822", "--reply=in:inbox +id:A", "--from=me@x.org", "--html=N"},
		},
		{
			name: "forward with comment",
			req: SynthesizeRequest{
				Kind: KindForward, Query: "all:mail +thread:7",
				From: "me@x.org", To: "you@x.org", Message: "fyi",
			},
			want: []string{"moggie", "email", "--format=rfc822", "--forward=all:mail +thread:7",
				"--from=me@x.org", "--to=you@x.org", "--message=fyi", "--html=N"},
		},
	}

	for _, tc := range cases {
		run.calls = nil
		if _, err := c.Synthesize(context.Background(), tc.req); err != nil {
			t.Fatalf("%s: Synthesize failed: %v", tc.name, err)
		}
		if fmt.Sprint(run.calls[0]) != fmt.Sprint(tc.want) {
			t.Errorf("%s: call = %v, want %v", tc.name, run.calls[0], tc.want)
		}
	}
}

func TestMaterializeTree_StagesTransportAsMailbox(t *testing.T) {
	target := t.TempDir()
	var mailboxQuery string

	run := &fakeRunner{}
	run.onOutput = func(call []string, stdin []byte) ([]byte, error) {
		switch call[0] {
		case "moggie":
			mailboxQuery = call[2]
			// The staged mailbox file must hold the transport bytes.
			path := strings.TrimPrefix(mailboxQuery, "mailbox:")
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if string(data) != "transport-bytes" {
				t.Errorf("staged mailbox = %q, want transport bytes", data)
			}
			return []byte("archive"), nil
		case "tar":
			if want := "--strip-components=3"; call[4] != want {
				t.Errorf("tar arg = %q, want %q", call[4], want)
			}
			if string(stdin) != "archive" {
				t.Errorf("tar stdin = %q, want archive stream", stdin)
			}
			dir := call[len(call)-1]
			return nil, os.WriteFile(filepath.Join(dir, "message.txt"), []byte("hi"), 0o600)
		}
		return nil, nil
	}
	c := newClient(run)

	if err := c.MaterializeTree(context.Background(), []byte("transport-bytes"), target); err != nil {
		t.Fatalf("MaterializeTree failed: %v", err)
	}

	if !strings.HasPrefix(mailboxQuery, "mailbox:") {
		t.Errorf("engine query = %q, want mailbox: prefix", mailboxQuery)
	}
	if _, err := os.Stat(filepath.Join(target, "message.txt")); err != nil {
		t.Errorf("message.txt not materialized: %v", err)
	}
}

func TestExtractInto_EmptyArchiveIsEmptyDownload(t *testing.T) {
	run := &fakeRunner{}
	c := newClient(run)

	err := c.ExtractInto(context.Background(), "in:inbox +id:A", t.TempDir())
	if !errors.Is(err, errors.ErrEmptyDownload) {
		t.Errorf("ExtractInto = %v, want EMPTY_DOWNLOAD", err)
	}
}

func TestExtractInto_UsesMsgdirsFormat(t *testing.T) {
	run := &fakeRunner{onOutput: func(call []string, _ []byte) ([]byte, error) {
		if call[0] == "moggie" {
			return []byte("archive"), nil
		}
		return nil, nil
	}}
	c := newClient(run)

	if err := c.ExtractInto(context.Background(), "in:inbox", t.TempDir()); err != nil {
		t.Fatalf("ExtractInto failed: %v", err)
	}

	search := run.calls[0]
	want := []string{"moggie", "search", "in:inbox", "--format=msgdirs", "--indent="}
	if fmt.Sprint(search) != fmt.Sprint(want) {
		t.Errorf("search call = %v, want %v", search, want)
	}
}
