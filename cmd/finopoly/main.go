package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	mathrand "math/rand"
	"os"
	"strings"
	"time"

	cl "finopoly/internal/cli"
	"finopoly/internal/config"
	"finopoly/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "finopoly",
		Short:        "Finopoly, a corporate finance board game",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(cfg),
		newBoardCmd(cfg),
		newNewCmd(&apiBase),
		newStateCmd(&apiBase),
		newResultsCmd(&apiBase),
		newForgetCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func loadCatalog(path string) (*game.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	return game.LoadCatalog(path)
}

func newPlayCmd(cfg config.CLIConfig) *cobra.Command {
	var seed int64
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game at this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			var rng *mathrand.Rand
			if seed != 0 {
				rng = mathrand.New(mathrand.NewSource(seed))
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			session, err := game.NewSession(catalog, logger, rng)
			if err != nil {
				return err
			}

			count, err := promptInt(fmt.Sprintf("Number of players (%d-%d)", game.MinPlayers, game.MaxPlayers), game.MinPlayers, game.MaxPlayers)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				for {
					name, err := promptRequired(fmt.Sprintf("Player %d name", i+1))
					if err != nil {
						return err
					}
					if _, err := session.AddPlayer(name); err != nil {
						printWarn(err.Error())
						continue
					}
					break
				}
			}
			if err := session.Start(); err != nil {
				return err
			}
			return runGame(session)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", cfg.Seed, "dice seed, 0 for random")
	cmd.Flags().StringVar(&catalogPath, "catalog", cfg.CatalogPath, "path to a catalog override file")
	return cmd
}

func runGame(session *game.Session) error {
	tiles := make([]game.TileView, 0, game.BoardSize)
	for _, t := range session.Board() {
		tiles = append(tiles, t.View())
	}
	renderTiles(tiles)

	for !session.Over() {
		p, skipped, err := session.BeginTurn()
		if err != nil {
			return err
		}
		if skipped {
			if !p.Bankrupt {
				printWarn(fmt.Sprintf("%s sits this turn out.", p.Name))
			}
			if err := session.NextTurn(); err != nil {
				return err
			}
			continue
		}

		accent.Printf("\n-- Round %d, %s's turn --\n", session.Round(), p.Name)
		fmt.Printf("Cash %s | Users %.1fM | Debt %s | NPV %.1f\n", money(p.Cash), p.Users, money(p.Debt), p.TotalNPV(session.Round()))
		if err := waitForEnter("Press enter to roll... "); err != nil {
			return err
		}

		roll := session.RollDice()
		tile, err := session.MoveCurrent(roll)
		if err != nil {
			return err
		}
		fmt.Printf("Rolled a %d, landing on %s.\n", roll, tile.Name)

		if err := resolveTile(session, p, tile); err != nil {
			return err
		}
		if err := session.NextTurn(); err != nil {
			return err
		}
		if !session.Over() {
			renderScoreboard(session.Scoreboard(), session.Round(), game.DefaultRounds)
		}
	}

	results, err := session.FinalResults()
	if err != nil {
		return err
	}
	renderResults(results)
	return nil
}

func resolveTile(session *game.Session, p *game.Player, tile game.Tile) error {
	switch tile.Kind {
	case game.TileInvestment:
		return resolveInvestment(session, p, tile)
	case game.TileFinancing:
		return resolveFinancing(session, p)
	case game.TileEvent:
		ev, out := session.ResolveEvent(p)
		warn.Printf("Event: %s\n", ev.Name)
		printOutcome(out)
	case game.TileNeutral:
		printOutcome(session.ResolveNeutral(p))
	case game.TileSpecial:
		switch tile.Special {
		case game.SpecialIPO:
			return resolveIPO(session, p)
		case game.SpecialStrategy:
			return resolveStrategy(session, p)
		}
	}
	return nil
}

func resolveInvestment(session *game.Session, p *game.Player, tile game.Tile) error {
	offer := session.InvestmentOffer(tile)
	if offer == nil {
		if tile.Project != nil && tile.Project.Owner != nil {
			printInfo(fmt.Sprintf("%s already belongs to %s.", tile.Project.Name, tile.Project.Owner.Name))
		}
		return nil
	}
	fmt.Printf("%s is up for grabs:\n", offer.Name)
	renderProject(offer.View())
	if p.PendingDiscount > 0 {
		printInfo(fmt.Sprintf("Your talent pool earns you %.0f%% off.", p.PendingDiscount*100))
	}
	choice, err := promptChoice("Buy it", []string{"y", "n"}, "n")
	if err != nil {
		return err
	}
	if choice == "y" {
		printOutcome(session.BuyProject(p, tile))
	}
	return nil
}

func resolveFinancing(session *game.Session, p *game.Player) error {
	options := session.FinancingOptions(p)
	fmt.Println("Financing desk:")
	keys := make([]string, 0, len(options)+1)
	for i, opt := range options {
		status := ""
		if !opt.Available {
			status = danger.Sprintf(" (unavailable: %s)", opt.Reason)
		}
		fmt.Printf("  %d. %s: %s [%s]%s\n", i+1, opt.Name, opt.Description, opt.Constraint, status)
		keys = append(keys, fmt.Sprintf("%d", i+1))
	}
	keys = append(keys, "skip")
	choice, err := promptChoice("Pick an instrument", keys, "skip")
	if err != nil {
		return err
	}
	if choice == "skip" {
		printInfo("No financing taken.")
		return nil
	}
	var picked game.FinancingOption
	for i, opt := range options {
		if choice == fmt.Sprintf("%d", i+1) {
			picked = opt
		}
	}
	amount := 0.0
	switch picked.Kind {
	case game.FinancingDebt:
		amount, err = promptFloat(fmt.Sprintf("Amount to borrow (up to %s)", money(picked.Amount)), 1, picked.Amount)
	case game.FinancingEquity:
		amount, err = promptFloat(fmt.Sprintf("Amount to raise (up to %s)", money(picked.Amount)), 1, picked.Amount)
	}
	if err != nil {
		return err
	}
	printOutcome(session.ApplyFinancing(p, picked.Kind, amount))
	return nil
}

func resolveIPO(session *game.Session, p *game.Player) error {
	if p.IPODone {
		printInfo("Already public, the bell only rings once.")
		return nil
	}
	if session.Round() < game.IPOMinRound {
		printInfo(fmt.Sprintf("The IPO window opens in round %d.", game.IPOMinRound))
		return nil
	}
	choice, err := promptChoice("Take the company public for $100M (30% final valuation haircut)", []string{"y", "n"}, "n")
	if err != nil {
		return err
	}
	printOutcome(session.ResolveIPO(p, choice == "y"))
	return nil
}

func resolveStrategy(session *game.Session, p *game.Player) error {
	if len(p.Projects) == 0 {
		printInfo("No projects to steer.")
		return nil
	}
	fmt.Println("Your portfolio:")
	for i, pr := range p.Projects {
		fmt.Printf("  %d. %s (cash flow %s, life %d)\n", i+1, pr.Name, money(pr.CashFlow), pr.Life)
	}
	choice, err := promptChoice("Strategy", []string{"expand", "pivot", "sell", "skip"}, "skip")
	if err != nil {
		return err
	}
	if choice == "skip" {
		printOutcome(session.ApplyStrategy(p, 0, game.StrategySkip))
		return nil
	}
	idx, err := promptInt("Project number", 1, len(p.Projects))
	if err != nil {
		return err
	}
	printOutcome(session.ApplyStrategy(p, idx-1, game.Strategy(choice)))
	return nil
}

func newBoardCmd(cfg config.CLIConfig) *cobra.Command {
	var seed int64
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Preview a generated board",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			var rng *mathrand.Rand
			if seed != 0 {
				rng = mathrand.New(mathrand.NewSource(seed))
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			session, err := game.NewSession(catalog, logger, rng)
			if err != nil {
				return err
			}
			for _, name := range []string{"One", "Two", "Three"} {
				if _, err := session.AddPlayer(name); err != nil {
					return err
				}
			}
			if err := session.Start(); err != nil {
				return err
			}
			tiles := make([]game.TileView, 0, game.BoardSize)
			for _, t := range session.Board() {
				tiles = append(tiles, t.View())
			}
			renderTiles(tiles)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", cfg.Seed, "board seed, 0 for random")
	cmd.Flags().StringVar(&catalogPath, "catalog", cfg.CatalogPath, "path to a catalog override file")
	return cmd
}

func newNewCmd(apiBase *string) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a game on a finopoly-api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := promptInt(fmt.Sprintf("Number of players (%d-%d)", game.MinPlayers, game.MaxPlayers), game.MinPlayers, game.MaxPlayers)
			if err != nil {
				return err
			}
			players := make([]string, 0, count)
			for i := 0; i < count; i++ {
				name, err := promptRequired(fmt.Sprintf("Player %d name", i+1))
				if err != nil {
					return err
				}
				players = append(players, name)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			raw, err := client.CreateGame(ctx, players, seed)
			if err != nil {
				return err
			}
			state, err := decodeInto[game.StateView](raw)
			if err != nil {
				return err
			}
			if err := cl.SaveGameRef(cl.GameRef{GameID: state.ID, BaseURL: *apiBase}); err != nil {
				return err
			}
			printSuccess("Game created: " + state.ID)
			renderState(state)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "dice seed, 0 for random")
	return cmd
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state [game-id]",
		Short: "Show the state of a remote game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, base, err := resolveGameRef(args, *apiBase)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			raw, err := newClient(&base).GameState(ctx, gameID)
			if err != nil {
				return err
			}
			state, err := decodeInto[game.StateView](raw)
			if err != nil {
				return err
			}
			renderState(state)
			return nil
		},
	}
}

func newResultsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "results [game-id]",
		Short: "Show the final ranking of a remote game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, base, err := resolveGameRef(args, *apiBase)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			raw, err := newClient(&base).Results(ctx, gameID)
			if err != nil {
				return err
			}
			payload, err := decodeInto[resultsPayload](raw)
			if err != nil {
				return err
			}
			renderResults(payload.Results)
			return nil
		},
	}
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Forget the saved remote game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearGameRef(); err != nil {
				return err
			}
			printSuccess("Saved game cleared.")
			return nil
		},
	}
}

func resolveGameRef(args []string, apiBase string) (string, string, error) {
	if len(args) == 1 {
		return args[0], apiBase, nil
	}
	ref, err := cl.LoadGameRef()
	if err != nil {
		return "", "", err
	}
	base := ref.BaseURL
	if strings.TrimSpace(base) == "" {
		base = apiBase
	}
	return ref.GameID, base, nil
}
