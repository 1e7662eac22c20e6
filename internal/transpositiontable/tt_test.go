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

package transpositiontable

import (
	"math/rand"
	"os"
	"path"
	"runtime"
	"testing"
	"time"
	"unsafe"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/orbita2d/admete-go/internal/config"
	"github.com/orbita2d/admete-go/internal/logging"
	"github.com/orbita2d/admete-go/internal/position"
	. "github.com/orbita2d/admete-go/internal/types"
)

var logTest *logging2.Logger

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestEntrySize(t *testing.T) {
	e := TtEntry{}
	assert.EqualValues(t, TtEntrySize, unsafe.Sizeof(e))
	logTest.Debugf("Size of Entry %d bytes", unsafe.Sizeof(e))
}

func TestNew(t *testing.T) {
	tt := NewTtTable(2)
	assert.Equal(t, uint64(131_072), tt.maxNumberOfEntries)
	assert.Equal(t, 131_072, cap(tt.data))
	logTest.Debug(tt.String())

	tt = NewTtTable(64)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	// odd sizes get rounded down to the next power of 2 of entries
	tt = NewTtTable(100)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	tt = NewTtTable(4_096)
	assert.Equal(t, uint64(268_435_456), tt.maxNumberOfEntries)
	assert.Equal(t, 268_435_456, cap(tt.data))
}

func TestGetAndProbe(t *testing.T) {
	tt := NewTtTable(64)
	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Put(pos.ZobristKey(), move, 5, Value(101), EXACT, ValueNA)
	assert.EqualValues(t, 1, tt.Len())

	// get unaltered entry
	e := tt.GetEntry(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key())
	assert.Equal(t, move, e.Move())
	assert.EqualValues(t, 5, e.Depth())
	assert.EqualValues(t, 1, e.Age())
	assert.EqualValues(t, Value(101), e.Value())
	assert.Equal(t, EXACT, e.Vtype())

	// probe reduces age by 1
	e = tt.Probe(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key())
	assert.EqualValues(t, 0, e.Age())

	// age does not go below 0
	e = tt.Probe(pos.ZobristKey())
	assert.EqualValues(t, 0, e.Age())

	// not in tt
	pos.DoMove(move)
	assert.Nil(t, tt.Probe(pos.ZobristKey()))
}

func TestClear(t *testing.T) {
	tt := NewTtTable(2)
	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Put(pos.ZobristKey(), move, 5, Value(101), EXACT, ValueNA)
	assert.NotNil(t, tt.Probe(pos.ZobristKey()))
	assert.EqualValues(t, 1, tt.numberOfEntries)

	tt.Clear()

	// entry is gone
	assert.Nil(t, tt.Probe(pos.ZobristKey()))
	assert.EqualValues(t, 0, tt.numberOfEntries)
}

func TestAge(t *testing.T) {
	tt := NewTtTable(16)

	logTest.Debug("Filling tt")
	for i := range tt.data {
		tt.numberOfEntries++
		tt.data[i].store(Key(i+1), MoveNone, 1, Value(1), EXACT, ValueNA)
	}
	logTest.Debug(tt.String())

	assert.EqualValues(t, 1, tt.data[0].Age())
	assert.EqualValues(t, 1, tt.data[1_000].Age())
	assert.EqualValues(t, 1, tt.data[len(tt.data)-1].Age())

	logTest.Debug("Aging entries")
	tt.AgeEntries()

	assert.EqualValues(t, 2, tt.data[0].Age())
	assert.EqualValues(t, 2, tt.data[1_000].Age())
	assert.EqualValues(t, 2, tt.data[len(tt.data)-1].Age())
}

func TestPutUpdateAndProbe(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	// put and probe
	tt.Put(111, move, 4, Value(111), ALPHA, ValueNA)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfPuts)
	e := tt.Probe(111)
	assert.EqualValues(t, 111, e.Key())
	assert.EqualValues(t, move.MoveOf(), e.Move().MoveOf())
	assert.EqualValues(t, Value(111), e.Value())
	assert.EqualValues(t, 4, e.Depth())
	assert.EqualValues(t, ALPHA, e.Vtype())

	// update existing entry
	tt.Put(111, move, 5, Value(112), BETA, ValueNA)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfUpdates)
	assert.EqualValues(t, 0, tt.Stats.numberOfCollisions)
	e = tt.Probe(111)
	assert.EqualValues(t, Value(112), e.Value())
	assert.EqualValues(t, 5, e.Depth())
	assert.EqualValues(t, BETA, e.Vtype())

	// update with MoveNone preserves the stored move
	tt.Put(111, MoveNone, 6, Value(113), EXACT, ValueNA)
	e = tt.Probe(111)
	assert.EqualValues(t, move.MoveOf(), e.Move().MoveOf())
	assert.EqualValues(t, Value(113), e.Value())
}

func TestBucketReplacement(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	numBuckets := Key(tt.maxNumberOfEntries / bucketSize)

	// first entry lands in the depth preferred slot
	tt.Put(111, move, 6, Value(111), EXACT, ValueNA)
	assert.EqualValues(t, 1, tt.Len())

	// a shallower entry with the same hash goes to the always
	// replace slot - both remain found
	collisionKey := Key(111) + numBuckets
	tt.Put(collisionKey, move, 4, Value(112), BETA, ValueNA)
	assert.EqualValues(t, 2, tt.Len())
	assert.NotNil(t, tt.GetEntry(111))
	assert.NotNil(t, tt.GetEntry(collisionKey))

	// another shallow entry evicts only the always replace slot -
	// the deep entry survives
	collisionKey2 := Key(111) + 2*numBuckets
	tt.Put(collisionKey2, move, 3, Value(113), ALPHA, ValueNA)
	assert.NotNil(t, tt.GetEntry(111))
	assert.Nil(t, tt.GetEntry(collisionKey))
	assert.NotNil(t, tt.GetEntry(collisionKey2))

	// a deeper entry replaces the depth preferred slot
	collisionKey3 := Key(111) + 3*numBuckets
	tt.Put(collisionKey3, move, 7, Value(114), EXACT, ValueNA)
	assert.Nil(t, tt.GetEntry(111))
	assert.NotNil(t, tt.GetEntry(collisionKey3))
	assert.NotNil(t, tt.GetEntry(collisionKey2))
}

func TestTimingTTe(t *testing.T) {

	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	// setup
	tt := NewTtTable(1_024)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	const rounds = 5
	const iterations uint64 = 50_000_000

	for r := 1; r <= rounds; r++ {
		out.Printf("Round %d\n", r)
		key := Key(rand.Uint64())
		depth := int8(rand.Int31n(128))
		value := Value(rand.Int31n(int32(ValueMax)))
		valueType := ValueType(rand.Int31n(4))
		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			tt.Put(key+Key(i), move, depth, value, valueType, ValueNA)
		}
		for i := uint64(0); i < iterations; i++ {
			key := Key(key + Key(2*i))
			_ = tt.Probe(key)
		}
		elapsed := time.Since(start)
		out.Println(tt.String())
		out.Printf("TimingTT took %d ns for %d iterations (1 put 1 probe)\n", elapsed.Nanoseconds(), iterations)
		out.Printf("1 put/probes in %d ns: %d tts\n",
			elapsed.Nanoseconds()/int64(iterations),
			(iterations*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()))
	}
}
