// Package attest implements threshold verification of signed response
// attestations. An attestation is a claim by an identity that response
// content hashes to specific digests; a response is trusted once a
// configured number of such claims check out against identity-bound keys.
package attest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Digests computes the digest set for response content: one SHA-256 digest
// per element when the content is a JSON array, otherwise a single digest of
// the whole value. Digests are lowercase hex over the canonical
// serialization, so hashing the same content twice always yields the same
// sequence.
func Digests(content []byte) ([]string, error) {
	if len(content) == 0 {
		return nil, errors.New("empty content")
	}

	var top interface{}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	if dec.More() {
		return nil, errors.New("content has trailing data")
	}

	items := []interface{}{top}
	if arr, ok := top.([]interface{}); ok {
		items = arr
	}

	digests := make([]string, len(items))
	for i, item := range items {
		canonical, err := canonicalJSON(item)
		if err != nil {
			return nil, fmt.Errorf("canonicalizing content item %d: %w", i, err)
		}
		sum := sha256.Sum256(canonical)
		digests[i] = hex.EncodeToString(sum[:])
	}
	return digests, nil
}

// canonicalJSON serializes a decoded JSON value deterministically: object
// keys in lexical order, numbers kept as their source literals, no HTML
// escaping. Canonical form must be stable across processes for digests to
// agree with the attester's.
func canonicalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
