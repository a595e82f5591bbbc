package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/shhac/schemadesk/internal/errors"
)

// terminalHost answers flow prompts on a line-oriented terminal
type terminalHost struct {
	in        *bufio.Reader
	out       io.Writer
	apiKey    string
	assumeYes bool

	doc    string
	hasDoc bool
}

func newTerminalHost(in io.Reader, out io.Writer, apiKey string, assumeYes bool) *terminalHost {
	return &terminalHost{
		in:        bufio.NewReader(in),
		out:       out,
		apiKey:    apiKey,
		assumeYes: assumeYes,
	}
}

func (h *terminalHost) APIKey() string {
	return h.apiKey
}

// Choose lists options numbered from 1. An empty answer or end of input
// cancels; anything else that is not a listed number asks again.
func (h *terminalHost) Choose(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, apperrors.ErrUserCancelled
	}

	_, _ = fmt.Fprintln(h.out, title)
	for i, opt := range options {
		_, _ = fmt.Fprintf(h.out, "  %d) %s\n", i+1, opt)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		_, _ = fmt.Fprint(h.out, "> ")
		line, err := h.readLine()
		if err != nil || line == "" {
			return 0, apperrors.ErrUserCancelled
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		_, _ = fmt.Fprintf(h.out, "Enter a number between 1 and %d\n", len(options))
	}
}

func (h *terminalHost) Confirm(ctx context.Context, message string) (bool, error) {
	if h.assumeYes {
		_, _ = fmt.Fprintln(h.out, message, "yes")
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, _ = fmt.Fprintf(h.out, "%s [y/N] ", message)
	line, err := h.readLine()
	if err != nil {
		return false, nil
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (h *terminalHost) setDocument(content string) {
	h.doc = content
	h.hasDoc = true
}

func (h *terminalHost) ActiveDocument() (string, bool) {
	return h.doc, h.hasDoc
}

func (h *terminalHost) Info(message string) {
	_, _ = fmt.Fprintln(h.out, message)
}

func (h *terminalHost) Progress(message string) func() {
	_, _ = fmt.Fprintln(h.out, message+"...")
	return func() {}
}

func (h *terminalHost) readLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
