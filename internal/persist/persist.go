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

// Package persist stores and reloads the engine's piece/square tables in a
// small on-disk key/value store, so a tuned table can be carried across
// runs without being recompiled into the binary.
package persist

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"

	myLogging "github.com/orbita2d/admete-go/internal/logging"
	. "github.com/orbita2d/admete-go/internal/types"
)

var log = myLogging.GetLog()

const (
	keyTables   = "postables/v1"
	keyChecksum = "postables/v1/xxhash"
)

// tables is the on-disk representation of a piece/square table set.
type tables struct {
	Mid [PieceLength][SqLength]Value `json:"mid"`
	End [PieceLength][SqLength]Value `json:"end"`
}

// Store wraps a badger key/value database holding persisted evaluation
// tables.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the key/value store at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTables persists the given mid/end game piece/square tables, alongside
// an xxhash checksum of the encoded payload used to detect corruption on
// load.
func (s *Store) SaveTables(mid, end [PieceLength][SqLength]Value) error {
	data, err := json.Marshal(tables{Mid: mid, End: end})
	if err != nil {
		return err
	}
	sum := make([]byte, 8)
	binary.BigEndian.PutUint64(sum, xxhash.Sum64(data))
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyTables), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyChecksum), sum)
	})
	if err != nil {
		return err
	}
	log.Info("Persisted piece/square tables (" + humanize.Bytes(uint64(len(data))) + ")")
	return nil
}

// LoadTables loads a previously persisted table set, verifying it against
// the stored xxhash checksum. found is false if the store holds no entry
// yet.
func (s *Store) LoadTables() (t tables, found bool, err error) {
	var data, sum []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyTables))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		if data, err = item.ValueCopy(nil); err != nil {
			return err
		}
		sumItem, err := txn.Get([]byte(keyChecksum))
		if err != nil {
			return err
		}
		sum, err = sumItem.ValueCopy(nil)
		return err
	})
	if err != nil || !found {
		return t, found, err
	}
	if len(sum) == 8 && binary.BigEndian.Uint64(sum) != xxhash.Sum64(data) {
		return t, false, fmt.Errorf("persisted piece/square tables failed checksum verification")
	}
	err = json.Unmarshal(data, &t)
	return t, found, err
}

// LoadAndApply opens the store at dir, loads any persisted tables and
// installs them via types.SetPosValues. It is a no-op (returning nil) if
// the store holds no persisted tables yet.
func LoadAndApply(dir string) error {
	s, err := Open(dir)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := s.Close(); cErr != nil {
			log.Warningf("could not close persisted eval table store at %s: %v", dir, cErr)
		}
	}()
	t, found, err := s.LoadTables()
	if err != nil {
		return err
	}
	if !found {
		log.Info("No persisted piece/square tables found, using built-in tables")
		return nil
	}
	SetPosValues(t.Mid, t.End)
	log.Info("Loaded persisted piece/square tables from " + dir)
	return nil
}
