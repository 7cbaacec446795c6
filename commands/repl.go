package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader supplies input lines to Loop. It returns io.EOF when input
// ends and readline.ErrInterrupt on Ctrl-C.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// NewReadline returns a line editor with history and command completion.
// An empty historyFile disables history.
func NewReadline(prompt, historyFile string) (LineReader, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(registry))
	for _, cmd := range List() {
		items = append(items, readline.PcItem(cmd.Name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "/bye",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}
	return rl, nil
}

type scannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader reads lines from r without editing or history. It is
// used when stdin is not a terminal.
func NewScannerReader(r io.Reader) LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &scannerReader{scanner: scanner}
}

func (r *scannerReader) Readline() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scannerReader) Close() error { return nil }

// Loop reads and runs commands until a quit command, end of input or an
// interrupt. Lines not starting with / go to the assistant when one is
// configured.
func Loop(ctx context.Context, in LineReader, s *Session) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if !strings.HasPrefix(input, "/") {
			if s.llmClient == nil {
				s.printError(fmt.Errorf("I don't know what that means. Type /help to see the commands"))
				continue
			}
			input = "/chat " + input
		}

		quit, output, err := s.ExecuteWithOutput(input)
		if err != nil {
			s.printError(fmt.Errorf("%w. Type /help to see the commands", err))
			continue
		}
		if quit {
			return nil
		}

		if cmd := GetByName(strings.Fields(input)[0]); cmd != nil && !cmd.Hidden {
			s.AddCommandContext(input, output)
		}
	}
}
