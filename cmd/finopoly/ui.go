package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"finopoly/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type boardPayload struct {
	Tiles []game.TileView `json:"tiles"`
}

type resultsPayload struct {
	Results []game.FinalResult `json:"results"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func printOutcome(out game.Outcome) {
	if out.OK {
		success.Println(out.Message)
	} else {
		danger.Println(out.Message)
	}
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt(label string, min, max int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min || v > max {
			printWarn(fmt.Sprintf("Value must be between %d and %d.", min, max))
			continue
		}
		return v, nil
	}
}

func promptFloat(label string, min, max float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v < min || v > max {
			printWarn(fmt.Sprintf("Value must be between %.1f and %.1f.", min, max))
			continue
		}
		return v, nil
	}
}

func waitForEnter(label string) error {
	fmt.Printf("%s", label)
	_, err := stdinReader.ReadString('\n')
	return err
}

func renderTiles(tiles []game.TileView) {
	accent.Println("\n== BOARD ==")
	fmt.Printf("%-4s %-12s %-36s %-10s\n", "POS", "KIND", "TILE", "OWNER")
	for _, t := range tiles {
		owner := ""
		if t.Project != nil && t.Project.Owner != "" {
			owner = t.Project.Owner
		}
		fmt.Printf("%-4d %-12s %-36s %-10s\n", t.Position, string(t.Kind), truncate(t.Name, 36), owner)
	}
	fmt.Println()
}

func renderProject(p game.ProjectView) {
	fmt.Printf("  Cost:       %s\n", money(p.Cost))
	fmt.Printf("  Life:       %d rounds\n", p.Life)
	fmt.Printf("  Cash flow:  %s per round\n", money(p.CashFlow))
	fmt.Printf("  Users:      +%.1fM\n", p.UserGain)
	fmt.Printf("  Risk:       %s\n", p.Risk)
	fmt.Printf("  Option:     %s\n", p.RealOption)
}

func renderScoreboard(rows []game.ScoreboardRow, round, totalRounds int) {
	accent.Printf("\n== STANDINGS (Round %d/%d) ==\n", round, totalRounds)
	fmt.Printf("%-14s %10s %8s %8s %10s %9s %-8s\n", "PLAYER", "CASH", "USERS", "DEBT", "NPV", "PROJECTS", "STATUS")
	for _, row := range rows {
		status := ""
		if row.Bankrupt {
			status = danger.Sprint("BANKRUPT")
		}
		fmt.Printf("%-14s %10s %7.1fM %8s %10.1f %9d %-8s\n",
			truncate(row.Name, 14),
			money(row.Cash),
			row.Users,
			money(row.Debt),
			row.NPV,
			row.Projects,
			status,
		)
	}
	fmt.Println()
}

func renderResults(results []game.FinalResult) {
	accent.Println("\n== FINAL RESULTS ==")
	fmt.Printf("%-5s %-14s %10s %10s %10s %8s %9s %-5s\n", "RANK", "PLAYER", "SCORE", "NPV", "CASH", "USERS", "PROJECTS", "IPO")
	for _, r := range results {
		ipo := "no"
		if r.IPODone {
			ipo = "yes"
		}
		fmt.Printf("%-5d %-14s %10.2f %10.1f %10s %7.1fM %9d %-5s\n",
			r.Rank,
			truncate(r.Name, 14),
			r.Score,
			r.NPV,
			money(r.Cash),
			r.Users,
			r.Projects,
			ipo,
		)
	}
	if len(results) > 0 {
		fmt.Println()
		success.Printf("Winner: %s\n", results[0].Name)
	}
	fmt.Println()
}

func renderState(v game.StateView) {
	accent.Printf("\n== GAME %s ==\n", v.ID)
	fmt.Printf("Round:   %d/%d\n", v.Round, v.TotalRounds)
	if v.Over {
		warn.Println("Status:  finished")
	} else {
		fmt.Printf("Turn:    %s\n", v.CurrentPlayer)
	}
	fmt.Printf("%-14s %10s %8s %8s %10s %9s\n", "PLAYER", "CASH", "USERS", "DEBT", "NPV", "PROJECTS")
	for _, p := range v.Players {
		fmt.Printf("%-14s %10s %7.1fM %8s %10.1f %9d\n",
			truncate(p.Name, 14),
			money(p.Cash),
			p.Users,
			money(p.Debt),
			p.NPV,
			len(p.Projects),
		)
	}
	fmt.Println()
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.1fM", -v)
	}
	return fmt.Sprintf("$%.1fM", v)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
