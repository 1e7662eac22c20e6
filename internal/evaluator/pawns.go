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

package evaluator

import (
	. "github.com/orbita2d/admete-go/internal/config"
	. "github.com/orbita2d/admete-go/internal/types"
)

func (e *Evaluator) evaluatePawns() *Score {
	// look on cache table
	if Settings.Eval.UsePawnCache {
		entry := e.pawnCache.getEntry(e.position.PawnKey())
		if entry != nil {
			tmpScore.MidGameValue = entry.score.MidGameValue
			tmpScore.EndGameValue = entry.score.EndGameValue
			return &tmpScore
		}
	}

	whiteMid, whiteEnd := e.evaluatePawnsForColor(White)
	blackMid, blackEnd := e.evaluatePawnsForColor(Black)

	tmpScore.MidGameValue = whiteMid - blackMid
	tmpScore.EndGameValue = whiteEnd - blackEnd

	// store in cache
	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &tmpScore)
	}

	return &tmpScore
}

// evaluatePawnsForColor scores isolated, doubled, passed, phalanx/connected,
// supported and blocked pawns for one color's pawn structure.
func (e *Evaluator) evaluatePawnsForColor(us Color) (mid, end int16) {
	them := us.Flip()
	ownPawns := e.position.PiecesBb(us, Pawn)
	enemyPawns := e.position.PiecesBb(them, Pawn)

	for pawns := ownPawns; pawns != BbZero; {
		sq := pawns.PopLsb()
		fileBb := sq.FileOf().Bb()
		neighbourFiles := sq.NeighbourFilesMask()

		ahead := sq.RanksNorthMask()
		if us == Black {
			ahead = sq.RanksSouthMask()
		}

		if neighbourFiles&ownPawns == BbZero {
			mid += Settings.Eval.PawnIsolatedMidMalus
			end += Settings.Eval.PawnIsolatedEndMalus
		}

		if fileBb&ahead&ownPawns != BbZero {
			mid += Settings.Eval.PawnDoubledMidMalus
			end += Settings.Eval.PawnDoubledEndMalus
		}

		if (fileBb|neighbourFiles)&ahead&enemyPawns == BbZero {
			mid += Settings.Eval.PawnPassedMidBonus
			end += Settings.Eval.PawnPassedEndBonus
		}

		if neighbourFiles&sq.RankOf().Bb()&ownPawns != BbZero {
			mid += Settings.Eval.PawnPhalanxMidBonus
			end += Settings.Eval.PawnPhalanxEndBonus
		}

		if GetPawnAttacks(them, sq)&ownPawns != BbZero {
			mid += Settings.Eval.PawnSupportedMidBonus
			end += Settings.Eval.PawnSupportedEndBonus
		}

		blockSq := sq.To(Direction(us.MoveDirection()) * North)
		if blockSq.IsValid() && e.position.GetPiece(blockSq) == MakePiece(them, Pawn) {
			mid += Settings.Eval.PawnBlockedMidMalus
			end += Settings.Eval.PawnBlockedEndMalus
		}
	}

	return mid, end
}
