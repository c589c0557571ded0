// Package replay records battles as setup, seed and action list, and
// re-simulates them to check that the event log is reproduced exactly.
package replay

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const formatVersion = 1

// ErrChecksumMismatch is returned when a re-simulated battle produces a
// different event log than the recorded one.
var ErrChecksumMismatch = errors.New("replay checksum mismatch")

// Record is everything needed to reproduce a battle.
type Record struct {
	BattleID  string
	Seed      uint64
	Setup     encounter.Setup
	Actions   []rules.Action
	Won       bool
	Turns     int
	Digest    string
	CreatedAt time.Time
}

type header struct {
	Version  int
	BattleID string
}

// New records a finished (or abandoned) battle. events is the complete log
// the engine produced for actions.
func New(setup encounter.Setup, seed uint64, actions []rules.Action, events []rules.Event, state rules.State) Record {
	return Record{
		BattleID:  uuid.NewString(),
		Seed:      seed,
		Setup:     setup,
		Actions:   append([]rules.Action(nil), actions...),
		Won:       state.PlayerWon,
		Turns:     state.Turn,
		Digest:    Digest(events),
		CreatedAt: time.Now().UTC(),
	}
}

// Digest is the hex blake2b-256 of the canonical event lines.
func Digest(events []rules.Event) string {
	h, _ := blake2b.New256(nil)
	for _, event := range events {
		io.WriteString(h, event.String())
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Run rebuilds the battle and feeds it the recorded actions.
func Run(rec Record, lib *rules.Library, logger *zap.Logger) (*engine.Engine, error) {
	e, err := rec.Setup.Build(lib, rec.Seed, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild battle %s: %w", rec.BattleID, err)
	}
	e.StartBattle()
	for _, action := range rec.Actions {
		e.Dispatch(action)
	}
	return e, nil
}

// Verify re-simulates the record and compares digests.
func Verify(rec Record, lib *rules.Library, logger *zap.Logger) error {
	e, err := Run(rec, lib, logger)
	if err != nil {
		return err
	}
	if got := Digest(e.Events()); got != rec.Digest {
		if logger != nil {
			logger.Warn("replay diverged",
				zap.String("battle_id", rec.BattleID),
				zap.String("recorded", rec.Digest),
				zap.String("replayed", got),
			)
		}
		return fmt.Errorf("%w: battle %s", ErrChecksumMismatch, rec.BattleID)
	}
	return nil
}

// Encode writes the record as gzipped gob.
func (r Record) Encode(w io.Writer) error {
	gz := gzip.NewWriter(w)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(header{Version: formatVersion, BattleID: r.BattleID}); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	if err := enc.Encode(&r); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return gz.Close()
}

// Decode reads a record written by Encode.
func Decode(rd io.Reader) (Record, error) {
	gz, err := gzip.NewReader(rd)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	var h header
	if err := dec.Decode(&h); err != nil {
		return Record{}, fmt.Errorf("failed to decode header: %w", err)
	}
	if h.Version != formatVersion {
		return Record{}, fmt.Errorf("unsupported replay version: %d", h.Version)
	}
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// Marshal returns the encoded record.
func (r Record) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes bytes produced by Marshal.
func Unmarshal(data []byte) (Record, error) {
	return Decode(bytes.NewReader(data))
}

// SaveToFile writes the record to <directory>/<battle id>.replay.
func (r Record) SaveToFile(directory string) (string, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	filename := filepath.Join(directory, r.BattleID+".replay")
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := r.Encode(file); err != nil {
		return "", err
	}
	return filename, nil
}

// LoadFromFile reads a record saved by SaveToFile.
func LoadFromFile(filename string) (Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Record{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}
