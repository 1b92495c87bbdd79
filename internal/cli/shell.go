package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/internal/presentation/tui"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/session"
	"github.com/muesli/termenv"
)

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  type <text>              replace the selection with text
  caret [block:]<offset>   place the caret
  select <from> <to>       select a range; positions are [block:]offset
  <action> [value]         dispatch a toolbar action (bold, color red, heading header-one)
  undo, redo               step through history
  options <action>         list the values of a dropdown
  toolbar                  show the resolved toolbar
  blocks                   list blocks and their types
  show                     render the document
  help                     show this help
  quit                     leave`

// Shell interprets editing commands against one stored document.
type Shell struct {
	Toolbar  *qtext.Toolbar
	Sessions *session.Manager
	ID       string
	Out      io.Writer
	Render   func(string) (string, error)
	Profile  termenv.Profile
}

// Exec runs one command line and returns the resulting document.
// Documents that changed are saved before Exec returns.
func (s *Shell) Exec(ctx context.Context, doc *domain.Document, line string) (*domain.Document, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	editor := s.Toolbar.Editor()

	var (
		next = doc
		err  error
	)
	switch strings.ToLower(cmd) {
	case "":
		return doc, nil
	case "quit", "q", "exit":
		return doc, ErrQuit
	case "help", "?":
		fmt.Fprintln(s.Out, helpText)
		return doc, nil
	case "show":
		return doc, s.show(doc)
	case "toolbar":
		fmt.Fprintln(s.Out, tui.FormatToolbar(s.Profile, s.Toolbar.Catalog(), s.Toolbar.Toolbar(doc)))
		return doc, nil
	case "blocks":
		for _, b := range doc.Content.Blocks {
			fmt.Fprintf(s.Out, "%-6s %-22s %q\n", b.Key, b.Type, b.Text)
		}
		return doc, nil
	case "options":
		entry := s.Toolbar.Resolve(doc, rest)
		if len(entry.Options) == 0 {
			return doc, fmt.Errorf("%q has no options", rest)
		}
		fmt.Fprintln(s.Out, tui.Options(entry))
		return doc, nil
	case "type":
		next, err = editor.InsertText(doc, rest)
	case "caret":
		var pos domain.Position
		if pos, err = parsePosition(doc, rest); err == nil {
			next, err = editor.Select(doc, domain.Selection{Anchor: pos, Focus: pos})
		}
	case "select":
		next, err = s.selectRange(doc, rest)
	default:
		next, err = s.dispatch(doc, domain.Command{Action: cmd, Value: rest})
	}
	if err != nil {
		return doc, err
	}

	if next != doc {
		if err := s.Sessions.Save(ctx, s.ID, next); err != nil {
			return doc, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return next, nil
}

func (s *Shell) dispatch(doc *domain.Document, cmd domain.Command) (*domain.Document, error) {
	out, err := s.Toolbar.Dispatch(doc, cmd)
	if err != nil {
		return nil, err
	}
	if errors.Is(out.Err(), domain.ErrUnknownAction) {
		return nil, fmt.Errorf("unknown command %q (try help)", cmd.Action)
	}
	if !out.Kind.IsDocumentAction() {
		fmt.Fprintf(s.Out, "%s: %s\n", out.Action, out.Kind)
	}
	return out.Document, nil
}

func (s *Shell) selectRange(doc *domain.Document, args string) (*domain.Document, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return nil, errors.New("usage: select <from> <to>")
	}
	anchor, err := parsePosition(doc, fields[0])
	if err != nil {
		return nil, err
	}
	focus, err := parsePosition(doc, fields[1])
	if err != nil {
		return nil, err
	}
	return s.Toolbar.Editor().Select(doc, domain.Selection{Anchor: anchor, Focus: focus})
}

func (s *Shell) show(doc *domain.Document) error {
	out, err := s.Render(tui.Markdown(doc))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	fmt.Fprintln(s.Out, strings.TrimRight(out, "\n"))
	return nil
}

// parsePosition reads "block:offset" or a bare offset in the block of the
// selection focus.
func parsePosition(doc *domain.Document, raw string) (domain.Position, error) {
	block, offset, found := strings.Cut(raw, ":")
	if !found {
		block, offset = doc.Selection.Focus.BlockKey, raw
	}
	n, err := strconv.Atoi(offset)
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid offset %q", offset)
	}
	return domain.Position{BlockKey: block, Offset: n}, nil
}
