package attest

import "fmt"

// ErrNotEnoughAttestations means fewer than the required number of
// attestations were valid. No partial result accompanies it; the response is
// rejected outright.
type ErrNotEnoughAttestations struct {
	Valid    int
	Required int
}

func (e ErrNotEnoughAttestations) Error() string {
	return fmt.Sprintf("not enough valid attestations: %d valid, %d required", e.Valid, e.Required)
}
