// Package stateproof re-derives the state a call depends on from raw Merkle
// proofs instead of taking the serving endpoint's word for it. A verifier
// asks a prover endpoint for the latest block header, derives the accounts
// and storage slots the call would touch, fetches proofs for them, and
// checks the proofs against the header's state root. The protocol is
// strictly sequential: every prover call consumes data from the previous
// one.
package stateproof

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stateless-solutions/stateless-go/libs/log"
	"github.com/stateless-solutions/stateless-go/rpc"
	"github.com/stateless-solutions/stateless-go/trie"
)

// Verifier checks that the state touched by a call is consistent with a
// trusted state root, using only proof nodes supplied by a prover.
type Verifier struct {
	prover rpc.Caller
	logger log.Logger
}

// Option sets an optional parameter on the Verifier.
type Option func(*Verifier)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(v *Verifier) {
		v.logger = l
	}
}

// NewVerifier returns a Verifier that drives the given prover endpoint.
func NewVerifier(prover rpc.Caller, opts ...Option) (*Verifier, error) {
	if prover == nil {
		return nil, errors.New("prover client is required")
	}
	v := &Verifier{
		prover: prover,
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// VerifyCall proves the state a call depends on before the call itself is
// trusted. params holds the call's positional arguments; the first one is
// the transaction object an access list can be derived from.
//
// The round-trip pins everything to one block: the latest block number, the
// header (and state root) for that block, an access list synthesized at that
// block, and account plus storage proofs taken at the same block. Only the
// first access-list entry is checked; the remaining accounts a call touches
// are a documented gap, not proven here.
//
// A nil return means the touched account and its requested storage slots
// are consistent with the trusted state root. It says nothing about the
// call's eventual result value, which still needs its own verification.
func (v *Verifier) VerifyCall(ctx context.Context, params []interface{}) error {
	if len(params) == 0 {
		return errors.New("no call arguments to derive an access list from")
	}
	callArgs := stripNullFields(params[0])

	var latest hexutil.Big
	if err := v.prover.Call(ctx, "eth_blockNumber", nil, &latest); err != nil {
		return fmt.Errorf("fetching latest block number: %w", err)
	}
	blockTag := hexutil.EncodeBig(latest.ToInt())

	var header blockHeader
	if err := v.prover.Call(ctx, "eth_getBlockByNumber", []interface{}{blockTag, false}, &header); err != nil {
		return fmt.Errorf("fetching header for block %s: %w", blockTag, err)
	}
	if header.Number == nil || header.StateRoot == (common.Hash{}) {
		return fmt.Errorf("prover returned no usable header for block %s", blockTag)
	}

	var al accessListResult
	if err := v.prover.Call(ctx, "eth_createAccessList", []interface{}{callArgs, blockTag}, &al); err != nil {
		return fmt.Errorf("creating access list: %w", err)
	}
	if al.Error != "" {
		// the call may revert and still touch state worth proving
		v.logger.Info("prover reported a call error alongside the access list", "err", al.Error)
	}
	if len(al.AccessList) == 0 {
		return ErrEmptyAccessList
	}
	entry := al.AccessList[0]

	var proof accountResult
	if err := v.prover.Call(ctx, "eth_getProof", []interface{}{entry.Address, entry.StorageKeys, blockTag}, &proof); err != nil {
		return fmt.Errorf("fetching proof for account %s: %w", entry.Address, err)
	}

	account, err := verifyAccount(header.StateRoot, entry.Address, proof.AccountProof)
	if err != nil {
		return err
	}
	if err := verifyStorage(account.Root, entry, proof.StorageProof); err != nil {
		return err
	}

	v.logger.Debug("stateless proof verified",
		"block", blockTag,
		"address", entry.Address,
		"storage_keys", len(entry.StorageKeys))
	return nil
}

// verifyAccount rebuilds the state trie from the account proof and returns
// the decoded account stored under address.
func verifyAccount(stateRoot common.Hash, address common.Address, proof []hexutil.Bytes) (*types.StateAccount, error) {
	tr, err := trie.FromProof(stateRoot, toBytes(proof))
	if err != nil {
		return nil, fmt.Errorf("reconstructing state trie: %w", err)
	}
	leaf, err := tr.Get(address.Bytes())
	if err != nil {
		return nil, fmt.Errorf("walking state trie: %w", err)
	}
	if leaf == nil {
		return nil, ErrAccountNotProven{Address: address}
	}
	var account types.StateAccount
	if err := rlp.DecodeBytes(leaf, &account); err != nil {
		return nil, fmt.Errorf("decoding account leaf for %s: %w", address, err)
	}
	return &account, nil
}

// verifyStorage rebuilds a storage trie per requested slot and checks each
// slot is present. The storage root comes from the proven account leaf, not
// from the prover's echoed storageHash, and lookups use the requested keys
// rather than the echoed ones, so a prover cannot redirect the check.
func verifyStorage(storageRoot common.Hash, entry types.AccessTuple, proofs []storageResult) error {
	if len(entry.StorageKeys) == 0 {
		return nil
	}
	if storageRoot == types.EmptyRootHash {
		// the account has no storage at all
		return ErrStorageNotProven{Address: entry.Address, Key: entry.StorageKeys[0]}
	}
	if len(proofs) < len(entry.StorageKeys) {
		return fmt.Errorf("prover returned %d storage proofs for %d requested slots",
			len(proofs), len(entry.StorageKeys))
	}
	for i, key := range entry.StorageKeys {
		tr, err := trie.FromProof(storageRoot, toBytes(proofs[i].Proof))
		if err != nil {
			return fmt.Errorf("reconstructing storage trie for slot %s: %w", key, err)
		}
		val, err := tr.Get(key.Bytes())
		if err != nil {
			return fmt.Errorf("walking storage trie for slot %s: %w", key, err)
		}
		if val == nil {
			return ErrStorageNotProven{Address: entry.Address, Key: key}
		}
	}
	return nil
}

// stripNullFields drops null-valued fields from decoded JSON objects so the
// prover does not choke on fields the caller left unset.
func stripNullFields(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	out := make(map[string]interface{}, len(m))
	for k, val := range m {
		if val == nil {
			continue
		}
		out[k] = stripNullFields(val)
	}
	return out
}

func toBytes(proof []hexutil.Bytes) [][]byte {
	out := make([][]byte, len(proof))
	for i, p := range proof {
		out[i] = p
	}
	return out
}
