package cmd

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/app"
	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
)

var askPlain bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: short("cli.ask.short"),
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print the raw answer without markdown rendering")
	rootCmd.AddCommand(askCmd)
}

// runAsk sends one question and prints the answer. It continues the
// conversation the last ask or chat left open, so follow-up questions
// keep their context across invocations.
func runAsk(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.AI.RequireKeys(); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New(i18n.T(i18n.Default(), "cli.ask.empty"))
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close application", "error", err)
		}
	}()

	userID, err := a.LocalUser(ctx)
	if err != nil {
		return err
	}

	reply, err := a.Chat.Ask(ctx, userID, activeSession(), question)
	if err != nil {
		// On AI exhaustion the reply still carries the localized
		// apology; show it instead of a bare error chain.
		if reply != nil && reply.Text != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), reply.Text)
		}
		return err
	}
	rememberSession(reply.SessionID)

	out := reply.Text
	if !askPlain {
		if rendered, rerr := renderMarkdown(reply.Text); rerr == nil {
			out = rendered
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}

	levelName := ""
	if reply.LeveledUp {
		if st, serr := a.Points.Stats(ctx, userID); serr == nil {
			levelName = gamification.LevelFor(st.Points).Name(i18n.Default())
		}
	}
	notifyProgress(cmd.ErrOrStderr(), reply, levelName)
	return nil
}

// renderMarkdown formats the model's markdown for the terminal.
func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

// notifyProgress prints gamification outcomes to w, which callers set
// to stderr so the answer on stdout stays pipeable.
func notifyProgress(w io.Writer, reply *chat.Reply, levelName string) {
	lang := i18n.Default()
	for _, id := range reply.NewBadges {
		fmt.Fprintln(w, i18n.Tf(lang, "stats.badge.new", id.Name(lang)))
	}
	if reply.LeveledUp && levelName != "" {
		fmt.Fprintln(w, i18n.Tf(lang, "stats.level.up", levelName))
	}
}
