package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

const battleSeedSalt uint64 = 0xBA77EEED00000000

// NewSeed returns a fresh seed from the operating system's entropy source.
func NewSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// StableHash is FNV-1a 64 over the UTF-8 bytes of s.
func StableHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// DeriveBattleSeed splits a run seed into a per-battle seed keyed by floor and map node.
// The derivation never touches shared generator state.
func DeriveBattleSeed(runSeed uint64, floor int, nodeID string) uint64 {
	s := runSeed
	s ^= StableHash(nodeID)
	s ^= uint64(floor) * 1_000_000_000
	s ^= battleSeedSalt
	return s
}
