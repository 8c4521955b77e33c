// Package trie reconstructs sparse Merkle-Patricia tries from Merkle proof
// nodes and answers key lookups against them. A reconstructed trie holds
// only the nodes the proof supplied: lookups that walk off that subset fail
// with ErrMissingNode, while lookups that diverge cleanly from the supplied
// paths prove the key absent.
package trie

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Trie is a sparse Merkle-Patricia trie anchored at a root hash. Keys are
// hashed with keccak256 before lookup (secure-trie addressing), matching how
// Ethereum state and storage tries are keyed. A Trie is built fresh from one
// proof and discarded after use; it shares no state across calls.
type Trie struct {
	root  common.Hash
	nodes map[common.Hash][]byte
}

// FromProof indexes the proof nodes by their keccak256 hash and anchors the
// trie at root. It fails with ErrRootNotFound when no node hashes to root.
// Nodes are not decoded until a lookup walks through them, so a corrupted
// node off the lookup path goes unnoticed; a corrupted node on the path
// surfaces as ErrMissingNode, because its hash no longer matches the
// reference held by its parent.
func FromProof(root common.Hash, proof [][]byte) (*Trie, error) {
	if len(proof) == 0 {
		return nil, ErrEmptyProof
	}
	nodes := make(map[common.Hash][]byte, len(proof))
	for _, blob := range proof {
		nodes[crypto.Keccak256Hash(blob)] = blob
	}
	if _, ok := nodes[root]; !ok {
		return nil, ErrRootNotFound{Root: root}
	}
	return &Trie{root: root, nodes: nodes}, nil
}

// Root returns the hash the trie is anchored at.
func (t *Trie) Root() common.Hash {
	return t.root
}

// Get returns the value stored under key, or (nil, nil) when the proof
// demonstrates the key is absent. Callers pass raw keys (an address, a
// storage slot); hashing happens here.
func (t *Trie) Get(key []byte) ([]byte, error) {
	path := keybytesToHex(crypto.Keccak256(key))
	want := t.root
	for {
		blob, ok := t.nodes[want]
		if !ok {
			return nil, ErrMissingNode{Hash: want}
		}
		n, err := decodeNode(blob)
		if err != nil {
			return nil, ErrInvalidNode{Hash: want, Err: err}
		}
		rest, child := walk(n, path)
		switch child := child.(type) {
		case nil:
			return nil, nil
		case hashNode:
			path = rest
			want = common.BytesToHash(child)
		case valueNode:
			return child, nil
		}
	}
}

// walk descends through decoded and embedded nodes until it reaches a hash
// reference (the path continues in another proof node), a value, or a clean
// divergence from the path.
func walk(tn node, key []byte) ([]byte, node) {
	for {
		switch n := tn.(type) {
		case *shortNode:
			if len(key) < len(n.Key) || !bytes.Equal(n.Key, key[:len(n.Key)]) {
				return nil, nil
			}
			tn = n.Val
			key = key[len(n.Key):]
		case *fullNode:
			tn = n.Children[key[0]]
			key = key[1:]
		case hashNode:
			return key, n
		case nil:
			return key, nil
		case valueNode:
			return nil, n
		}
	}
}
