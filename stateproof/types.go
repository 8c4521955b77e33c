package stateproof

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Wire shapes for the subset of prover responses the protocol consumes.
// Fields the protocol never reads are left out; the JSON decoder ignores
// whatever else the prover sends.

// blockHeader carries the header fields the protocol needs: the number the
// proofs are pinned to and the state root they are checked against.
type blockHeader struct {
	Number    *hexutil.Big `json:"number"`
	StateRoot common.Hash  `json:"stateRoot"`
}

// accessListResult mirrors the eth_createAccessList response.
type accessListResult struct {
	AccessList types.AccessList `json:"accessList"`
	Error      string           `json:"error,omitempty"`
	GasUsed    hexutil.Uint64   `json:"gasUsed"`
}

// accountResult mirrors the eth_getProof response.
type accountResult struct {
	Address      common.Address  `json:"address"`
	AccountProof []hexutil.Bytes `json:"accountProof"`
	Balance      *hexutil.Big    `json:"balance"`
	CodeHash     common.Hash     `json:"codeHash"`
	Nonce        hexutil.Uint64  `json:"nonce"`
	StorageHash  common.Hash     `json:"storageHash"`
	StorageProof []storageResult `json:"storageProof"`
}

type storageResult struct {
	Key   string          `json:"key"`
	Value *hexutil.Big    `json:"value"`
	Proof []hexutil.Bytes `json:"proof"`
}
