// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checkpoints provides a registry of known-good block hashes at
// specific heights.  Chain validation logic consults the registry to
// short-circuit expensive verification of historic blocks whose hashes are
// hard-coded and widely agreed upon.
package checkpoints

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// AssertError identifies an error that indicates an internal misuse of the
// package such as constructing a registry from an unsorted checkpoint list.
// It has full support for the standard library errors.As function.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// Checkpoint identifies a known good point in the block chain.  Using
// checkpoints allows a few optimizations for old blocks during initial
// download and also prevents forks from old blocks.
type Checkpoint struct {
	Height int64
	Hash   *chainhash.Hash
}

// Registry houses an ordered set of checkpoints along with efficient
// height-based lookup.  It is immutable after creation and therefore safe
// for concurrent access.
type Registry struct {
	disabled    bool
	checkpoints []Checkpoint
	byHeight    map[int64]*Checkpoint
}

// New returns a registry for the provided checkpoints.  The checkpoints must
// be sorted by height in ascending order with no duplicate heights or the
// function will error.
//
// When disabled is true, the registry behaves as if no checkpoints exist at
// all: lookups report nothing and consistency checks always pass.  The
// checkpoint data is still retained so the flag can be decided at
// construction time from configuration without altering the data source.
func New(checkpoints []Checkpoint, disabled bool) (*Registry, error) {
	byHeight := make(map[int64]*Checkpoint, len(checkpoints))
	var prevHeight int64 = -1
	for i := range checkpoints {
		checkpoint := &checkpoints[i]
		if checkpoint.Height <= prevHeight {
			return nil, AssertError("checkpoints are not sorted by height")
		}
		if checkpoint.Hash == nil {
			str := fmt.Sprintf("checkpoint at height %d has no hash",
				checkpoint.Height)
			return nil, AssertError(str)
		}
		byHeight[checkpoint.Height] = checkpoint
		prevHeight = checkpoint.Height
	}

	return &Registry{
		disabled:    disabled,
		checkpoints: checkpoints,
		byHeight:    byHeight,
	}, nil
}

// Enabled returns whether or not the registry has any checkpoints that will
// be consulted.
func (r *Registry) Enabled() bool {
	return !r.disabled && len(r.checkpoints) > 0
}

// Latest returns the most recent checkpoint.  It will return nil when
// checkpoints are disabled or none are registered.
func (r *Registry) Latest() *Checkpoint {
	if !r.Enabled() {
		return nil
	}
	return &r.checkpoints[len(r.checkpoints)-1]
}

// LatestHeight returns the height of the most recent checkpoint, or 0 when
// checkpoints are disabled or none are registered.
func (r *Registry) LatestHeight() int64 {
	checkpoint := r.Latest()
	if checkpoint == nil {
		return 0
	}
	return checkpoint.Height
}

// At returns the expected hash at the given height, or nil when checkpoints
// are disabled or no checkpoint exists at that height.
func (r *Registry) At(height int64) *chainhash.Hash {
	if !r.Enabled() {
		return nil
	}
	checkpoint, ok := r.byHeight[height]
	if !ok {
		return nil
	}
	return checkpoint.Hash
}

// IsConsistent returns whether the block hash observed at the given height
// agrees with the registered checkpoints.  It returns true when checkpoints
// are disabled, when no checkpoint exists at the height, or when the hash
// matches the checkpoint.  It only returns false when a checkpoint exists at
// the height and the hash differs.
func (r *Registry) IsConsistent(height int64, hash *chainhash.Hash) bool {
	want := r.At(height)
	if want == nil {
		return true
	}
	if !want.IsEqual(hash) {
		return false
	}

	log.Infof("Verified checkpoint at height %d/block %s", height, hash)
	return true
}
