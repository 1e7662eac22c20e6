/*
 * admete-go - a UCI chess engine in Go
 *
 * MIT License
 *
 * Copyright (c) 2026 The admete-go authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package movegen

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orbita2d/admete-go/internal/position"
	. "github.com/orbita2d/admete-go/internal/types"
)

// test positions covering quiet middle games, tactical positions,
// promotions, en passant and positions with the king in check
var testFens = []string{
	position.StartFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ -",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	// in check
	"rnb1kbnr/pppp1ppp/8/4p3/5PPq/8/PPPPP2P/RNBQKBNR w KQkq -",
	"r1bqkbnr/pppp1Qpp/2n5/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq -",
	"4k3/8/8/8/8/8/3q4/4K3 w - -",
	// double check - only king moves
	"1k2r3/8/8/8/1b6/8/8/4K3 w - -",
}

func uciSet(ml []Move) []string {
	set := make([]string, 0, len(ml))
	for _, m := range ml {
		set = append(set, m.StringUci())
	}
	sort.Strings(set)
	return set
}

// no legal move may leave the own king capturable
func TestLegalMovesLeaveKingSafe(t *testing.T) {
	mg := NewMoveGen()
	for _, fen := range testFens {
		p, err := position.NewPositionFen(fen)
		assert.NoError(t, err)
		moves := mg.GenerateLegalMoves(p, GenAll).Clone()
		for _, m := range *moves {
			p.DoMove(m)
			us := p.NextPlayer().Flip()
			assert.False(t, p.IsAttacked(p.KingSquare(us), us.Flip()),
				"move %s on %s leaves king in check", m.StringUci(), fen)
			p.UndoMove()
		}
	}
}

// when in check the legal moves are exactly the legality-filtered evasions
func TestEvasionsMatchLegalMoves(t *testing.T) {
	mg := NewMoveGen()
	mg2 := NewMoveGen()
	for _, fen := range testFens {
		p, err := position.NewPositionFen(fen)
		assert.NoError(t, err)
		if !p.HasCheck() {
			continue
		}
		legal := uciSet(*mg.GenerateLegalMoves(p, GenAll))

		evasions := mg2.GeneratePseudoLegalMoves(p, GenAll, true).Clone()
		evasions.Filter(func(i int) bool { return p.IsLegalMove(evasions.At(i)) })
		assert.EqualValues(t, legal, uciSet(*evasions), "evasions mismatch on %s", fen)
	}
}

// the capture generation genre is a subset of all legal moves
func TestCapturesSubsetOfAllMoves(t *testing.T) {
	mg := NewMoveGen()
	mg2 := NewMoveGen()
	for _, fen := range testFens {
		p, err := position.NewPositionFen(fen)
		assert.NoError(t, err)
		all := uciSet(*mg.GenerateLegalMoves(p, GenAll))
		caps := mg2.GenerateLegalMoves(p, GenCap).Clone()
		for _, m := range *caps {
			assert.Contains(t, all, m.StringUci(), "capture %s not in all moves on %s", m.StringUci(), fen)
			assert.True(t, p.IsCapturingMove(m) || m.MoveType() == Promotion,
				"non capture %s generated as capture on %s", m.StringUci(), fen)
		}
	}
}

// the on demand generator must deliver the same move set as the batch generator
func TestOnDemandMatchesBatch(t *testing.T) {
	mg := NewMoveGen()
	mg2 := NewMoveGen()
	for _, fen := range testFens {
		p, err := position.NewPositionFen(fen)
		assert.NoError(t, err)
		hasCheck := p.HasCheck()

		batch := uciSet(*mg.GeneratePseudoLegalMoves(p, GenAll, hasCheck))

		var onDemand []Move
		mg2.ResetOnDemand()
		for m := mg2.GetNextMove(p, GenAll, hasCheck); m != MoveNone; m = mg2.GetNextMove(p, GenAll, hasCheck) {
			onDemand = append(onDemand, m)
		}
		assert.EqualValues(t, batch, uciSet(onDemand), "on demand mismatch on %s", fen)
	}
}

func TestHasLegalMove(t *testing.T) {
	mg := NewMoveGen()
	for _, fen := range testFens {
		p, _ := position.NewPositionFen(fen)
		assert.EqualValues(t, mg.GenerateLegalMoves(p, GenAll).Len() > 0, mg.HasLegalMove(p), fen)
	}
	// checkmate - no legal move
	p, _ := position.NewPositionFen("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq -")
	assert.False(t, mg.HasLegalMove(p))
	// stalemate - no legal move
	p, _ = position.NewPositionFen("7k/5Q2/6K1/8/8/8/8/8 b - -")
	assert.False(t, mg.HasLegalMove(p))
}

func TestGetMoveFromUci(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()
	m := mg.GetMoveFromUci(p, "e2e4")
	assert.True(t, m.IsValid())
	assert.EqualValues(t, SqE2, m.From())
	assert.EqualValues(t, SqE4, m.To())
	assert.EqualValues(t, MoveNone, mg.GetMoveFromUci(p, "e2e5"))
	assert.EqualValues(t, MoveNone, mg.GetMoveFromUci(p, "xxxx"))

	// promotion
	p, _ = position.NewPositionFen("8/4P2k/8/8/8/8/8/4K3 w - -")
	m = mg.GetMoveFromUci(p, "e7e8q")
	assert.True(t, m.IsValid())
	assert.EqualValues(t, Promotion, m.MoveType())
	assert.EqualValues(t, Queen, m.PromotionType())

	// castling is encoded as the king's two square move
	p, _ = position.NewPositionFen("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	m = mg.GetMoveFromUci(p, "e1g1")
	assert.True(t, m.IsValid())
	assert.EqualValues(t, Castling, m.MoveType())
}

func TestGetMoveFromSan(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()
	m := mg.GetMoveFromSan(p, "e4")
	assert.EqualValues(t, "e2e4", m.StringUci())
	m = mg.GetMoveFromSan(p, "Nf3")
	assert.EqualValues(t, "g1f3", m.StringUci())

	// ambiguous without disambiguation
	p, _ = position.NewPositionFen("4k3/8/8/8/8/8/4K3/R6R w - -")
	assert.EqualValues(t, MoveNone, mg.GetMoveFromSan(p, "Rd1"))
	assert.EqualValues(t, "a1d1", mg.GetMoveFromSan(p, "Rad1").StringUci())
	// castling
	p, _ = position.NewPositionFen("4k3/8/8/8/8/8/8/R3K2R w KQ -")
	assert.EqualValues(t, "e1g1", mg.GetMoveFromSan(p, "O-O").StringUci())
	assert.EqualValues(t, "e1c1", mg.GetMoveFromSan(p, "O-O-O").StringUci())
}

func TestPvKillerOrdering(t *testing.T) {
	mg := NewMoveGen()
	p := position.NewPosition()

	pv := mg.GetMoveFromUci(p, "d2d4")
	killer := mg.GetMoveFromUci(p, "b1c3")
	mg.SetPvMove(pv)
	mg.StoreKiller(killer)

	moves := mg.GeneratePseudoLegalMoves(p, GenAll, false)
	assert.EqualValues(t, pv, moves.Front().MoveOf())

	// on demand delivers the pv move first and only once
	mg.ResetOnDemand()
	mg.SetPvMove(pv)
	count := 0
	first := MoveNone
	for m := mg.GetNextMove(p, GenAll, false); m != MoveNone; m = mg.GetNextMove(p, GenAll, false) {
		if first == MoveNone {
			first = m
		}
		if m.MoveOf() == pv.MoveOf() {
			count++
		}
	}
	assert.EqualValues(t, pv.MoveOf(), first.MoveOf())
	assert.EqualValues(t, 1, count)
}
