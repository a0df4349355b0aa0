// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secpsig

import (
	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PrivKeyBytesLen is the length in bytes of a serialized private key.  It is
// the byte length of the underlying field.
const PrivKeyBytesLen = 32

// Key houses secp256k1 key material.  It either holds a private scalar along
// with the public key derived from it, or only a public key, depending on
// which constructor produced it.  Operations that require the private scalar
// return an error with kind ErrNotPrivateKey when invoked on public-only key
// material.
//
// The zero value is not valid key material; use one of the constructors.
type Key struct {
	// priv is the private scalar.  It is nil when only the public half of
	// the key is known.
	priv *secp256k1.ModNScalar

	// pub is the public key.  For private key material it is derived from
	// the private scalar at construction time so later encodings are pure
	// lookups.
	pub PublicKey
}

// derivePublicKey computes d*G for the provided scalar and stores the
// normalized affine result in pub.
func derivePublicKey(d *secp256k1.ModNScalar, pub *PublicKey) {
	var result secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(d, &result)
	result.ToAffine()
	pub.x.Set(&result.X)
	pub.y.Set(&result.Y)
}

// PrivateKeyFromBytes returns key material based on the private scalar
// interpreted as a big-endian unsigned integer from the passed byte slice.
//
// Scalars outside the valid range are rejected: an error with kind
// ErrPrivateKeyIsZero is returned for the value zero and an error with kind
// ErrPrivateKeyTooBig is returned for values greater than or equal to the
// group order.
func PrivateKeyFromBytes(privKeyBytes []byte) (*Key, error) {
	var d secp256k1.ModNScalar
	if overflow := d.SetByteSlice(privKeyBytes); overflow {
		str := "invalid private key: d >= group order"
		return nil, makeError(ErrPrivateKeyTooBig, str)
	}
	if d.IsZero() {
		str := "invalid private key: d is zero"
		return nil, makeError(ErrPrivateKeyIsZero, str)
	}

	key := &Key{priv: &d}
	derivePublicKey(&d, &key.pub)
	return key, nil
}

// PublicKeyFromBytes returns public-only key material from the serialized
// public key in any of the formats supported by ParsePubKey.  The returned
// key material cannot be used for operations that require a private scalar.
func PublicKeyFromBytes(pubKeyBytes []byte) (*Key, error) {
	pubKey, err := ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, err
	}
	return KeyFromPublic(pubKey), nil
}

// KeyFromPublic wraps an existing public key as public-only key material.
func KeyFromPublic(pubKey *PublicKey) *Key {
	var key Key
	key.pub.x.Set(&pubKey.x)
	key.pub.y.Set(&pubKey.y)
	return &key
}

// GenerateKey returns private key material generated with a cryptographically
// secure random number generator.  Scalars outside the half-open range
// (0, N) are rejected and redrawn, so the result is always valid.
func GenerateKey() *Key {
	var buf [PrivKeyBytesLen]byte
	var d secp256k1.ModNScalar
	for {
		rand.Read(buf[:])
		// The order of the group is close enough to 2^256 that this rarely
		// loops at all in practice.
		if overflow := d.SetBytes(&buf); overflow != 0 || d.IsZero() {
			continue
		}
		break
	}
	zeroArray32(&buf)

	key := &Key{priv: &d}
	derivePublicKey(&d, &key.pub)
	return key
}

// IsPrivate returns whether or not the key material holds a private scalar.
func (k *Key) IsPrivate() bool {
	return k.priv != nil
}

// Public returns the public key associated with the key material.  It is
// valid for both private and public-only key material.
func (k *Key) Public() *PublicKey {
	return &k.pub
}

// SerializedPublic encodes the public key associated with the key material
// using the requested compression.  The result is a pure, repeatable function
// of the key.
func (k *Key) SerializedPublic(compressed bool) []byte {
	return k.pub.Serialize(compressed)
}

// PrivateScalar returns a copy of the private scalar the key material holds.
// It returns an error with kind ErrNotPrivateKey when the key material only
// holds a public key.
func (k *Key) PrivateScalar() (*secp256k1.ModNScalar, error) {
	if k.priv == nil {
		str := "operation requires a private key but only a public key is " +
			"available"
		return nil, makeError(ErrNotPrivateKey, str)
	}
	return new(secp256k1.ModNScalar).Set(k.priv), nil
}

// SerializedPrivate returns the private scalar as a 32-byte big-endian value.
// It returns an error with kind ErrNotPrivateKey when the key material only
// holds a public key.
func (k *Key) SerializedPrivate() ([]byte, error) {
	if k.priv == nil {
		str := "operation requires a private key but only a public key is " +
			"available"
		return nil, makeError(ErrNotPrivateKey, str)
	}
	b := k.priv.Bytes()
	return b[:], nil
}

// Zero manually clears the memory associated with the private scalar.  This
// can be used to explicitly clear key material from memory for enhanced
// security against memory scraping.  It has no effect on public-only key
// material.
func (k *Key) Zero() {
	if k.priv != nil {
		k.priv.Zero()
	}
}

// zeroArray32 zeroes the provided 32-byte buffer.
func zeroArray32(b *[32]byte) {
	copy(b[:], zero32[:])
}

// zero32 is an array of 32 zero bytes used to zero out private key material.
var zero32 = [32]byte{}
