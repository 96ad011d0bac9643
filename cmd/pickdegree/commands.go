package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"pickmydegree/internal/app"
	"pickmydegree/internal/bot"
	"pickmydegree/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	playerName string

	simulateRuns     int
	simulateStrategy string
	simulateFavorite string
)

// step opens the session, applies fn and prints the resulting view.
func step(fn func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := fn(ctx, s, args); err != nil {
			return err
		}
		s.logEvents()
		render(cmd.OutOrStdout(), s)
		return nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runStatus(cmd *cobra.Command, args []string) error {
	return step(func(context.Context, *session, []string) error { return nil })(cmd, args)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current phase",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved run and return to the welcome screen",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		s.engine.ResetGame(ctx)
		return nil
	}),
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the rules",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		s.engine.GoToRules(ctx)
		return nil
	}),
}

var welcomeCmd = &cobra.Command{
	Use:   "welcome",
	Short: "Go back to the welcome screen",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		s.engine.GoToWelcome(ctx)
		return nil
	}),
}

var donateCmd = &cobra.Command{
	Use:   "donate",
	Short: "Show the donation page",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		s.engine.GoToDonate(ctx)
		return nil
	}),
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new run with the whole catalog",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		s.engine.StartNewGame(ctx)
		return nil
	}),
}

var removeCategoryCmd = &cobra.Command{
	Use:   "remove-category [category]",
	Short: "Remove every degree of a category",
	Args:  cobra.ExactArgs(1),
	RunE: step(func(ctx context.Context, s *session, args []string) error {
		s.engine.RemoveCategory(ctx, args[0])
		return nil
	}),
}

var restoreCategoryCmd = &cobra.Command{
	Use:   "restore-category [category]",
	Short: "Bring back a removed category",
	Args:  cobra.ExactArgs(1),
	RunE: step(func(ctx context.Context, s *session, args []string) error {
		return s.check(s.engine.RestoreCategory(ctx, args[0]))
	}),
}

var categoriesDoneCmd = &cobra.Command{
	Use:   "categories-done",
	Short: "Finish removing categories and start filtering",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		return s.check(s.engine.CompleteCategories(ctx))
	}),
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [degree-id]...",
	Short: "Drop a degree, or bring back one dropped in this phase",
	Args:  cobra.MinimumNArgs(1),
	RunE: step(func(ctx context.Context, s *session, args []string) error {
		for _, id := range args {
			if err := s.check(s.engine.TogglePhase1Selection(ctx, id)); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
		}
		return nil
	}),
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Bring back the last dropped degree",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		return s.check(s.engine.UndoPhase1(ctx))
	}),
}

var phase1DoneCmd = &cobra.Command{
	Use:   "phase1-done",
	Short: "Finish filtering and start the matches",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		return s.check(s.engine.CompletePhase1(ctx))
	}),
}

var keepCmd = &cobra.Command{
	Use:   "keep [degree-id]",
	Short: "Keep one side of the current reduction match",
	Args:  cobra.ExactArgs(1),
	RunE: step(func(ctx context.Context, s *session, args []string) error {
		return s.check(s.engine.ResolvePhase2Match(ctx, args[0]))
	}),
}

var keepRandomCmd = &cobra.Command{
	Use:   "keep-random",
	Short: "Let chance decide the current reduction match",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		kept, res := s.engine.ResolvePhase2MatchRandomly(ctx)
		if err := s.check(res); err != nil {
			return err
		}
		logger.Info("Random pick", zap.String("kept", kept.ID))
		return nil
	}),
}

var pickCmd = &cobra.Command{
	Use:   "pick [degree-id]",
	Short: "Pick the winner of the current bracket match",
	Args:  cobra.ExactArgs(1),
	RunE: step(func(ctx context.Context, s *session, args []string) error {
		return s.check(s.engine.ResolveBracketMatch(ctx, args[0]))
	}),
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Rebuild an interrupted bracket",
	Args:  cobra.NoArgs,
	RunE: step(func(ctx context.Context, s *session, _ []string) error {
		if !s.engine.RepairBracketState(ctx) {
			logger.Info("Nothing to repair")
		}
		return nil
	}),
}

var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Print a signed certificate for the winner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(commandContext(cmd))
		if err != nil {
			return err
		}
		defer s.Close()
		if !s.cfg.CertificatesEnabled() {
			return fmt.Errorf("certificate secret is not configured (set PMD_CERT_SECRET)")
		}
		token, err := app.NewCertificateService(s.cfg.CertificateSecret, s.cfg.CertificateIssuer).
			IssueFor(s.engine, playerName, s.locale, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Check a certificate and print its content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(commandContext(cmd))
		if err != nil {
			return err
		}
		defer s.Close()
		cert, err := app.NewCertificateService(s.cfg.CertificateSecret, s.cfg.CertificateIssuer).Verify(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Winner:  %s (%s)\n", cert.WinnerName, cert.WinnerCategory)
		if cert.PlayerName != "" {
			fmt.Fprintf(out, "Player:  %s\n", cert.PlayerName)
		}
		fmt.Fprintf(out, "Date:    %s\n", cert.Date)
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play whole runs with a bot and tally the winners",
	Long: `Plays complete runs in memory, without touching the saved run.
Every run keeps the whole catalog and lets the bot decide each match.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	if simulateRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	rng := newRand()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	name := simulateStrategy
	if name == "" {
		name = s.cfg.BotStrategy
	}
	favorite := simulateFavorite
	if favorite == "" {
		favorite = s.cfg.BotFavoriteCategory
	}
	strategy, err := bot.NewStrategy(name, favorite, rng)
	if err != nil {
		return err
	}
	agent := &bot.Agent{Name: name, Strategy: strategy}

	wins := make(map[string]int)
	byID := make(map[string]domain.Degree)
	for i := 0; i < simulateRuns; i++ {
		engine := app.NewEngine(nil, s.catalog, rng)
		outcome, err := agent.PlayOut(ctx, engine)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		logger.Debug("Simulated run", zap.Int("run", i+1), zap.String("winner", outcome.Winner.ID), zap.Int("matches", outcome.Matches))
		wins[outcome.Winner.ID]++
		byID[outcome.Winner.ID] = outcome.Winner
	}

	ids := make([]string, 0, len(wins))
	for id := range wins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if wins[ids[i]] != wins[ids[j]] {
			return wins[ids[i]] > wins[ids[j]]
		}
		return ids[i] < ids[j]
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d runs with strategy %s\n", simulateRuns, name)
	for _, id := range ids {
		d := byID[id]
		fmt.Fprintf(out, "%4d  %s (%s)\n", wins[id], d.DisplayName(s.locale), d.Category)
	}
	return nil
}
