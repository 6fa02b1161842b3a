package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// errQuit signals a clean session exit from the dispatcher to the loop.
var errQuit = stderrors.New("quit")

// Dispatch maps one prompt line to its command handler. Unknown input is
// passed through to the shell as an escape hatch.
func (s *Session) Dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		cmd = line[:i]
		rest = strings.TrimSpace(line[i:])
	}

	switch cmd {
	case "s":
		return s.Search(ctx, rest)
	case "inbox", "sent", "all-mail":
		return s.Search(ctx, cmd)
	case "v":
		return s.View(ctx)
	case "d":
		return s.Download(ctx)
	case "r":
		return s.Reply(ctx)
	case "f":
		return s.Forward(ctx)
	case "c":
		return s.Compose(ctx, rest)
	case "p":
		return s.PreviewDraft()
	case "send":
		return s.Send(ctx)
	case "drafts":
		return s.ListDrafts()
	case "h", "history":
		return s.ShowHistory(ctx, rest)
	case "help", "?":
		s.printHelp()
		return nil
	case "q", "quit", "exit":
		return errQuit
	default:
		// Escape hatch: hand the whole line to the shell.
		return s.Run.Foreground(ctx, "sh", "-c", line)
	}
}

// Loop runs the interactive prompt until the user quits or input ends.
// Command errors are reported and the prompt continues; nothing short of
// quit or EOF ends the session.
func (s *Session) Loop(ctx context.Context) error {
	for {
		fmt.Fprint(s.Out, "mog> ")
		line, err := s.In.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				fmt.Fprintln(s.Out)
				return nil
			}
			return err
		}

		if err := s.Dispatch(ctx, line); err != nil {
			if err == errQuit {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.printf("error: %v\n", err)
		}
	}
}

func (s *Session) printHelp() {
	s.printf(`commands:
  s <query>   search (no query: %s); aliases: inbox, sent, all-mail
  v           view selected messages
  d           download selected messages
  r           reply to selection
  f           forward selection
  c [path|new] compose (resume draft at path, or start fresh)
  p           preview current draft as HTML
  send        send current draft
  drafts      list draft directories
  h [n]       search history (h <n> re-runs entry n)
  q           quit
anything else runs as a shell command
`, s.Cfg.DefaultQuery)
}
