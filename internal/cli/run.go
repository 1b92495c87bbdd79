package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/internal/presentation/tui"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/muesli/termenv"
)

// ScratchSession is the document ID used when no session is named.
const ScratchSession = "scratch"

// RunOptions configures the interactive editing session.
type RunOptions struct {
	Options

	// SessionID names a persisted document. Without it the session lives in memory.
	SessionID string
	// Fresh discards the stored document before starting.
	Fresh bool
	// Text seeds a new document, one block per line.
	Text string
}

// Run starts the editing REPL on in and out until quit, EOF or ctx is done.
func Run(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	logger := NewLogger(opts.Debug)

	var hooks domain.LifecycleHooks
	if opts.Debug {
		hooks = DebugHooks(logger)
	}
	tb, err := NewToolbar(opts.Options, logger, hooks)
	if err != nil {
		return err
	}

	id := opts.SessionID
	if id == "" {
		id = ScratchSession
		opts.SessionDir = ""
		opts.RedisAddr = ""
	} else if opts.SessionDir == "" && opts.RedisAddr == "" {
		opts.SessionDir = ".qtext/documents"
	}
	sessions, closeStore, err := NewSessions(opts.Options, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if opts.Fresh {
		if err := sessions.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	loaded := true
	doc, err := sessions.LoadOrCreate(ctx, id, func(id string) *domain.Document {
		loaded = false
		return tb.NewDocument(id, seedBlocks(opts.Text)...)
	})
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	interactive := isTerminal(in)
	shell := &Shell{
		Toolbar:  tb,
		Sessions: sessions,
		ID:       id,
		Out:      out,
		Render:   tui.PlainRenderer(),
		Profile:  termenv.Ascii,
	}
	if interactive {
		tui.PrintBanner(out, qtext.Version)
		shell.Profile = termenv.ColorProfile()
		if render, err := tui.NewRenderer(); err == nil {
			shell.Render = render
		} else {
			logger.Warn("Falling back to plain output", "error", err)
		}
	}

	if opts.SessionID != "" {
		if loaded {
			logger.Info("Session Resumed", "session_id", id)
			printSystemMessage(out, "Resuming session '%s'.", id)
		} else {
			logger.Info("Session Created", "session_id", id)
			printSystemMessage(out, "Session '%s' active.", id)
		}
	}

	return loop(ctx, shell, doc, in, interactive)
}

func loop(ctx context.Context, shell *Shell, doc *domain.Document, in io.Reader, interactive bool) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if interactive {
			fmt.Fprint(shell.Out, "> ")
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(shell.Out)
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			next, err := shell.Exec(ctx, doc, line)
			switch {
			case errors.Is(err, ErrQuit):
				return nil
			case err != nil:
				fmt.Fprintf(shell.Out, "error: %v\n", err)
			default:
				doc = next
			}
		}
	}
}

func seedBlocks(text string) []domain.Block {
	if text == "" {
		return nil
	}
	var blocks []domain.Block
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		blocks = append(blocks, domain.Block{Text: line})
	}
	return blocks
}
