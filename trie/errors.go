package trie

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyProof is returned when a proof contains no nodes at all.
var ErrEmptyProof = errors.New("trie: empty proof")

// ErrRootNotFound means no node in the proof hashes to the trusted root, so
// there is nothing to anchor reconstruction at.
type ErrRootNotFound struct {
	Root common.Hash
}

func (e ErrRootNotFound) Error() string {
	return fmt.Sprintf("trie: proof does not contain root node %x", e.Root)
}

// ErrMissingNode means a node referenced along the lookup path is absent
// from the proof, or present only in corrupted form under a different hash.
// Such a proof demonstrates neither presence nor absence of the key.
type ErrMissingNode struct {
	Hash common.Hash
}

func (e ErrMissingNode) Error() string {
	return fmt.Sprintf("trie: referenced node %x is missing from the proof", e.Hash)
}

// ErrInvalidNode means a proof node on the lookup path failed to decode.
type ErrInvalidNode struct {
	Hash common.Hash
	Err  error
}

func (e ErrInvalidNode) Error() string {
	return fmt.Sprintf("trie: node %x is not a valid trie node: %v", e.Hash, e.Err)
}

func (e ErrInvalidNode) Unwrap() error { return e.Err }
