package game

import (
	"fmt"
	mathrand "math/rand"
)

type Tile struct {
	Position int
	Kind     TileKind
	Name     string
	Special  SpecialKind
	Project  *Project
}

func (t Tile) View() TileView {
	v := TileView{
		Position: t.Position,
		Kind:     t.Kind,
		Name:     t.Name,
		Special:  t.Special,
	}
	if t.Project != nil {
		pv := t.Project.View()
		v.Project = &pv
	}
	return v
}

var tileCounts = []struct {
	kind  TileKind
	count int
}{
	{TileInvestment, 8},
	{TileFinancing, 2},
	{TileEvent, 4},
	{TileNeutral, 4},
	{TileSpecial, 2},
}

// generateBoard lays out the 20-tile board: positions are shuffled,
// then carved into contiguous runs per tile kind. Investment tiles bind
// catalog projects round-robin; the two special tiles become the IPO
// window and the strategy desk in draw order.
func generateBoard(projects []*Project, rng *mathrand.Rand) ([]Tile, error) {
	var total int
	for _, tc := range tileCounts {
		total += tc.count
	}
	if total != BoardSize {
		return nil, fmt.Errorf("tile counts sum to %d, want %d", total, BoardSize)
	}
	if len(projects) == 0 {
		return nil, ErrInvalidCatalog
	}

	positions := rng.Perm(BoardSize)
	board := make([]Tile, BoardSize)

	next := 0
	investment := 0
	var specials []int
	for _, tc := range tileCounts {
		for i := 0; i < tc.count; i++ {
			pos := positions[next]
			next++
			tile := Tile{Position: pos, Kind: tc.kind}
			switch tc.kind {
			case TileInvestment:
				project := projects[investment%len(projects)]
				investment++
				tile.Project = project
				tile.Name = "Investment: " + project.Name
			case TileFinancing:
				tile.Name = "Financing Opportunity"
			case TileEvent:
				tile.Name = "Market Event"
			case TileNeutral:
				tile.Name = "Revenue Collection"
			case TileSpecial:
				specials = append(specials, pos)
			}
			board[pos] = tile
		}
	}

	board[specials[0]].Special = SpecialIPO
	board[specials[0]].Name = "IPO Opportunity"
	board[specials[1]].Special = SpecialStrategy
	board[specials[1]].Name = "Strategic Decision"

	return board, nil
}
