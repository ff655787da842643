// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest identifying a document's content.
type Digest [32]byte

// digestDomainKey is the BLAKE3 key for document digests: the ASCII
// domain name, zero-padded to 32 bytes. Changing it changes every
// digest.
var digestDomainKey = [32]byte{
	'b', 'o', 'o', 't', 's', 'p', 'e', 'c', '.', 'd', 'o', 'c', 'u', 'm', 'e', 'n',
	't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a hex-encoded digest.
func ParseDigest(text string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return digest, fmt.Errorf("parsing document digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("document digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}

// Digest returns the keyed BLAKE3 hash of the document's CBOR encoding.
// The encoding is deterministic, so two documents that are [Document.Equal]
// have the same digest whichever encoding they were read from.
func (d Document) Digest() (Digest, error) {
	data, err := d.MarshalCBOR()
	if err != nil {
		return Digest{}, err
	}
	hasher, err := blake3.NewKeyed(digestDomainKey[:])
	if err != nil {
		return Digest{}, fmt.Errorf("bootspec: BLAKE3 keyed hash initialization failed: %w", err)
	}
	hasher.Write(data)

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}
