// Command fraud-chat is an interactive terminal client for the fraud assistant.
// It keeps all state in memory and talks to Gemini, or to the offline model
// with -offline.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
	"github.com/minibank/fraud-chat/internal/core/service"
	"github.com/minibank/fraud-chat/internal/infrastructure/config"
	"github.com/minibank/fraud-chat/internal/infrastructure/db/memory"
	"github.com/minibank/fraud-chat/internal/infrastructure/llm/gemini"
	"github.com/minibank/fraud-chat/internal/infrastructure/llm/offline"
	"github.com/minibank/fraud-chat/pkg/logger"
)

const (
	cmdQuit   = "/quit"
	cmdLogout = "/logout"
)

var errQuit = errors.New("quit")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "fraud-chat:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("fraud-chat", flag.ContinueOnError)
	flags.SetOutput(stderr)
	useOffline := flags.Bool("offline", false, "answer with the built-in offline model")
	debug := flags.Bool("debug", false, "write debug logs to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// a second Ctrl-C while blocked on input kills the process
	context.AfterFunc(ctx, stop)

	overrides := map[string]string{}
	if *useOffline {
		overrides["LLM_PROVIDER"] = config.ProviderOffline
	}
	cfg, err := config.LoadWith(ctx, overrides)
	if err != nil {
		return err
	}

	log := zerolog.Nop()
	if *debug {
		log = logger.New(logger.Options{Level: "debug", Pretty: true, Output: stderr})
	}

	var model ports.LanguageModel = offline.New()
	if cfg.LLM.Provider == config.ProviderGemini {
		model, err = gemini.New(ctx, gemini.Config{APIKey: cfg.LLM.APIKey, Model: cfg.LLM.Model, Timeout: cfg.LLM.Timeout})
		if err != nil {
			return err
		}
	}

	seed, err := memory.DefaultSeed()
	if err != nil {
		return err
	}
	sessions := service.NewSessionService(
		memory.NewRepository(seed),
		model,
		memory.NewSessionStore(cfg.SessionTTL),
		memory.NewTurnLock(),
		nil,
		log,
	)
	return newConsole(sessions, stdin, stdout).loop(ctx)
}

// console drives one session from a line-oriented reader. Every read goes
// through the same scanner so no buffered input is lost between prompts.
type console struct {
	sessions ports.SessionService
	id       string
	stdin    io.Reader
	in       *bufio.Scanner
	out      io.Writer
}

func newConsole(sessions ports.SessionService, stdin io.Reader, stdout io.Writer) *console {
	return &console{
		sessions: sessions,
		id:       uuid.NewString(),
		stdin:    stdin,
		in:       bufio.NewScanner(stdin),
		out:      stdout,
	}
}

// loop runs until /quit, end of input or an interrupt.
func (c *console) loop(ctx context.Context) error {
	fmt.Fprintln(c.out, "MiniBank Fraud Detection Chatbot")
	fmt.Fprintf(c.out, "Type %s to sign out or %s to exit.\n", cmdLogout, cmdQuit)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(c.out, "\nGoodbye.")
			return nil
		}
		sess, err := c.sessions.Session(ctx, c.id)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return err
		}

		switch sess.Phase() {
		case domain.PhaseLoggedOut:
			err = c.login(ctx)
		case domain.PhaseAsking:
			err = c.ask(ctx)
		case domain.PhaseFollowUp:
			err = c.followUp(ctx)
		}

		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		case ctx.Err() != nil:
			continue
		case errors.Is(err, domain.ErrModelUnavailable):
			fmt.Fprintln(c.out, "The assistant is unavailable right now, please try again.")
		case err != nil:
			return err
		}
	}
}

func (c *console) login(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nLogin")
	username, err := c.readLine(ctx, "Username: ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(username) == cmdQuit {
		return errQuit
	}
	password, err := c.readPassword(ctx, "Password: ")
	if err != nil {
		return err
	}

	sess, err := c.sessions.Login(ctx, c.id, username, password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		fmt.Fprintln(c.out, "Invalid credentials. Please try again.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Hello, %s! You are now logged in.\n", sess.Username)
	return nil
}

func (c *console) ask(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nAsk about your account")
	question, err := c.readLine(ctx, "Your question: ")
	if err != nil {
		return err
	}
	if handled, err := c.command(ctx, question); handled {
		return err
	}

	sess, err := c.sessions.Ask(ctx, c.id, question)
	if errors.Is(err, domain.ErrEmptyInput) {
		return nil
	}
	if err != nil {
		return err
	}
	c.printLastTurn(sess)
	return nil
}

func (c *console) followUp(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nWhat would you like to do next?")
	for i, topic := range domain.FollowUpTopics {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, topic)
	}
	choice, err := c.readLine(ctx, "Choose one: ")
	if err != nil {
		return err
	}
	if handled, err := c.command(ctx, choice); handled {
		return err
	}

	topic, ok := domain.ParseTopic(strings.TrimSpace(choice))
	if !ok {
		fmt.Fprintf(c.out, "Please choose 1-%d.\n", len(domain.FollowUpTopics))
		return nil
	}
	sess, err := c.sessions.FollowUp(ctx, c.id, topic)
	if err != nil {
		return err
	}
	c.printLastTurn(sess)
	return nil
}

// command handles /logout and /quit, reporting whether line was one of them.
func (c *console) command(ctx context.Context, line string) (bool, error) {
	switch strings.TrimSpace(line) {
	case cmdQuit:
		return true, errQuit
	case cmdLogout:
		if _, err := c.sessions.Logout(ctx, c.id); err != nil {
			return true, err
		}
		fmt.Fprintln(c.out, "You have been logged out.")
		return true, nil
	}
	return false, nil
}

func (c *console) printLastTurn(sess *domain.Session) {
	n := len(sess.Transcript)
	if n < 2 {
		return
	}
	fmt.Fprintf(c.out, "\nYou: %s\nAI: %s\n", sess.Transcript[n-2].Text, sess.Transcript[n-1].Text)
}

// readLine returns the context error when an interrupt arrived while it
// was waiting, so the line typed after Ctrl-C is never acted on.
func (c *console) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}

// readPassword disables echo on a terminal and falls back to a plain line
// read for pipes and tests.
func (c *console) readPassword(ctx context.Context, prompt string) (string, error) {
	f, ok := c.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.readLine(ctx, prompt)
	}
	fmt.Fprint(c.out, prompt)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(raw), nil
}
