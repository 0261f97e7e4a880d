package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/javanetict/jnsuite"
	"github.com/javanetict/jnsuite/internal/presentation/tui"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ChatOptions configure an interactive terminal conversation.
type ChatOptions struct {
	SessionID string
	In        io.Reader
	Out       io.Writer
	Render    func(string) (string, error)
	Profile   termenv.Profile
	Banner    bool
}

// TerminalChatOptions returns options for os.Stdin and os.Stdout, rendering
// markdown only when stdout is a terminal.
func TerminalChatOptions(sessionID string) ChatOptions {
	opts := ChatOptions{
		SessionID: sessionID,
		In:        os.Stdin,
		Out:       os.Stdout,
		Render:    tui.Plain,
		Profile:   termenv.Ascii,
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		width, _, err := term.GetSize(fd)
		if err != nil {
			width = tui.DefaultWidth
		}
		opts.Render = tui.NewRenderer(width)
		opts.Profile = termenv.EnvColorProfile()
		opts.Banner = true
	}
	return opts
}

// RunChat reads utterances line by line and prints the engine's replies.
// A number picks one of the suggestions offered by the previous reply.
func RunChat(ctx context.Context, engine ports.ConversationEngine, opts ChatOptions) error {
	if opts.Render == nil {
		opts.Render = tui.Plain
	}
	out := opts.Out
	if opts.Banner {
		tui.PrintBanner(out, opts.Profile, jnsuite.Version)
	}
	printSystemMessage(out, "Type a message, a suggestion number, or 'exit' to quit.")

	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
	sessionID := opts.SessionID
	var suggestions []string

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return handleExecutionError(scanner.Err())
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(suggestions) {
			input = suggestions[n-1]
			printSystemMessage(out, "%s", input)
		}

		turn, err := engine.Turn(ctx, sessionID, input)
		if errors.Is(err, domain.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return handleExecutionError(err)
		}
		if sessionID == "" {
			sessionID = turn.SessionID
			printSystemMessage(out, "Session '%s' active.", sessionID)
		}

		rendered, err := opts.Render(turn.Response)
		if err != nil {
			rendered, _ = tui.Plain(turn.Response)
		}
		fmt.Fprint(out, rendered)
		fmt.Fprint(out, tui.FormatSuggestions(opts.Profile, turn.Suggestions))
		suggestions = turn.Suggestions
	}
}
