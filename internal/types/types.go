//
// admete-go - a UCI chess engine in Go
//
// MIT License
//
// Copyright (c) 2026 The admete-go authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package types contains the board representation's basic data types
// (squares, pieces, moves, bitboards, values) and the pre computed
// tables they depend on.
package types

import (
	"github.com/orbita2d/admete-go/internal/logging"
)

var log = logging.GetLog()

var initialized = false

// init initializes the pre computed data structures (bitboards, magic
// attack tables, piece/square values) exactly once.
func init() {
	if initialized {
		return
	}
	log.Debug("Initializing data types")
	initBb()
	initPosValues()
	initialized = true
}

// Key is used for zobrist keys in chess positions. Zobrist keys need all
// 64 bits for distribution.
type Key uint64

const (
	// MaxMoves is the max number of moves for a game.
	MaxMoves = 512

	// KB is 1024 bytes.
	KB uint64 = 1024

	// MB is KB * KB.
	MB uint64 = KB * KB

	// GB is KB * MB.
	GB uint64 = KB * MB
)
