package stateproof

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyAccessList is returned when the prover cannot name a single
// account the call would touch, leaving nothing to prove.
var ErrEmptyAccessList = errors.New("prover returned an empty access list")

// ErrAccountNotProven is returned when the account proof does not place the
// target address under the trusted state root.
type ErrAccountNotProven struct {
	Address common.Address
}

func (e ErrAccountNotProven) Error() string {
	return fmt.Sprintf("account %s is not proven against the state root", e.Address)
}

// ErrStorageNotProven is returned when a storage proof does not place one of
// the requested slots under the account's storage root.
type ErrStorageNotProven struct {
	Address common.Address
	Key     common.Hash
}

func (e ErrStorageNotProven) Error() string {
	return fmt.Sprintf("storage slot %s of account %s is not proven against the storage root",
		e.Key, e.Address)
}
