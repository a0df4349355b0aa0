// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secpsig

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// References:
//   [SEC1]: Elliptic Curve Cryptography (Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

// These constants define the lengths of serialized public keys.
const (
	// PubKeyBytesLenCompressed is the length of a serialized compressed
	// public key: a format byte followed by the x coordinate.
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the length of a serialized uncompressed
	// public key: a format byte followed by both coordinates.
	PubKeyBytesLenUncompressed = 65
)

// Public key serialization format identifier bytes per [SEC1] section 2.3.3.
const (
	pubKeyFormatCompressedEven byte = 0x02
	pubKeyFormatCompressedOdd  byte = 0x03
	pubKeyFormatUncompressed   byte = 0x04
	pubKeyFormatHybridEven     byte = 0x06
	pubKeyFormatHybridOdd      byte = 0x07
)

// PublicKey provides facilities for working with secp256k1 public keys.  The
// coordinates are normalized affine values and the point is never the point
// at infinity.
type PublicKey struct {
	x secp256k1.FieldVal
	y secp256k1.FieldVal
}

// NewPublicKey instantiates a new public key with the given x and y
// coordinates.
//
// It should be noted that, unlike ParsePubKey, since this accepts arbitrary x
// and y coordinates, it allows creation of public keys that are not valid
// points on the secp256k1 curve.  The IsOnCurve method of the returned
// instance can be used to determine validity.
func NewPublicKey(x, y *secp256k1.FieldVal) *PublicKey {
	var pubKey PublicKey
	pubKey.x.Set(x)
	pubKey.y.Set(y)
	return &pubKey
}

// DecompressPubKey reconstructs the public key with the given big-endian x
// coordinate and y coordinate oddness by solving the curve equation for y and
// choosing the solution with the requested oddness.
//
// It returns an error with kind ErrPubKeyXTooBig when the provided x
// coordinate is greater than or equal to the field prime and an error with
// kind ErrPubKeyNotOnCurve when no point on the curve has the provided x
// coordinate.
func DecompressPubKey(xBytes []byte, oddY bool) (*PublicKey, error) {
	var x secp256k1.FieldVal
	if overflow := x.SetByteSlice(xBytes); overflow {
		str := "invalid public key: x >= field prime"
		return nil, makeError(ErrPubKeyXTooBig, str)
	}

	var y secp256k1.FieldVal
	if valid := secp256k1.DecompressY(&x, oddY, &y); !valid {
		str := fmt.Sprintf("invalid public key: x coordinate %v is not on the "+
			"secp256k1 curve", x)
		return nil, makeError(ErrPubKeyNotOnCurve, str)
	}
	y.Normalize()

	return NewPublicKey(&x, &y), nil
}

// isOnCurve returns whether or not the affine point (x,y) is on the curve.
func isOnCurve(x, y *secp256k1.FieldVal) bool {
	// The secp256k1 curve equation is: y^2 = x^3 + 7.
	var y2, result secp256k1.FieldVal
	y2.SquareVal(y).Normalize()
	result.SquareVal(x).Mul(x).AddInt(7).Normalize()
	return y2.Equals(&result)
}

// ParsePubKey parses a secp256k1 public key encoded according to the format
// specified by ANSI X9.62-1998, which means it is also compatible with the
// SEC (Standards for Efficient Cryptography) specification which is a subset
// of the former.  In other words, it supports the uncompressed, compressed,
// and hybrid formats as follows:
//
// Compressed:
//
//	<format byte = 0x02/0x03><32-byte X coordinate>
//
// Uncompressed:
//
//	<format byte = 0x04><32-byte X coordinate><32-byte Y coordinate>
//
// Hybrid:
//
//	<format byte = 0x06/0x07><32-byte X coordinate><32-byte Y coordinate>
//
// NOTE: The hybrid format makes little sense in practice and therefore this
// package will not produce public keys serialized in this format.  However,
// this function will properly parse them since they exist in the wild.
func ParsePubKey(serialized []byte) (key *PublicKey, err error) {
	var x, y secp256k1.FieldVal
	switch len(serialized) {
	case PubKeyBytesLenUncompressed:
		// Reject unsupported public key formats for the given length.
		format := serialized[0]
		switch format {
		case pubKeyFormatUncompressed:
		case pubKeyFormatHybridEven, pubKeyFormatHybridOdd:
		default:
			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}

		// Parse the x and y coordinates while ensuring that they are in the
		// allowed range.
		if overflow := x.SetByteSlice(serialized[1:33]); overflow {
			str := "invalid public key: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}
		if overflow := y.SetByteSlice(serialized[33:]); overflow {
			str := "invalid public key: y >= field prime"
			return nil, makeError(ErrPubKeyYTooBig, str)
		}

		// Ensure the oddness of the y coordinate matches the specified format
		// for hybrid public keys.
		if format == pubKeyFormatHybridEven || format == pubKeyFormatHybridOdd {
			wantOddY := format == pubKeyFormatHybridOdd
			if y.IsOdd() != wantOddY {
				str := fmt.Sprintf("invalid public key: y oddness does not "+
					"match specified value of %v", wantOddY)
				return nil, makeError(ErrPubKeyMismatchedOddness, str)
			}
		}

		// Reject public keys that are not a point on the secp256k1 curve.
		if !isOnCurve(&x, &y) {
			str := fmt.Sprintf("invalid public key: [%v,%v] not on secp256k1 "+
				"curve", x, y)
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}

	case PubKeyBytesLenCompressed:
		// Reject unsupported public key formats for the given length.
		format := serialized[0]
		switch format {
		case pubKeyFormatCompressedEven, pubKeyFormatCompressedOdd:
		default:
			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}

		// Parse the x coordinate while ensuring that it is in the allowed
		// range.
		if overflow := x.SetByteSlice(serialized[1:33]); overflow {
			str := "invalid public key: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}

		// Attempt to calculate the y coordinate for the given x coordinate
		// such that the result pair is a point on the secp256k1 curve and the
		// solution with desired oddness is chosen.
		wantOddY := format == pubKeyFormatCompressedOdd
		if !secp256k1.DecompressY(&x, wantOddY, &y) {
			str := fmt.Sprintf("invalid public key: x coordinate %v is not on "+
				"the secp256k1 curve", x)
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}
		y.Normalize()

	default:
		str := fmt.Sprintf("malformed public key: invalid length: %d",
			len(serialized))
		return nil, makeError(ErrPubKeyInvalidLen, str)
	}

	return NewPublicKey(&x, &y), nil
}

// SerializeUncompressed serializes a public key in the 65-byte uncompressed
// format.
func (p PublicKey) SerializeUncompressed() []byte {
	// 0x04 || 32-byte x coordinate || 32-byte y coordinate
	var b [PubKeyBytesLenUncompressed]byte
	b[0] = pubKeyFormatUncompressed
	p.x.PutBytesUnchecked(b[1:33])
	p.y.PutBytesUnchecked(b[33:65])
	return b[:]
}

// SerializeCompressed serializes a public key in the 33-byte compressed
// format.
func (p PublicKey) SerializeCompressed() []byte {
	// Choose the format byte depending on the oddness of the y coordinate.
	format := pubKeyFormatCompressedEven
	if p.y.IsOdd() {
		format = pubKeyFormatCompressedOdd
	}

	// 0x02 or 0x03 || 32-byte x coordinate
	var b [PubKeyBytesLenCompressed]byte
	b[0] = format
	p.x.PutBytesUnchecked(b[1:33])
	return b[:]
}

// Serialize encodes the public key using the requested compression.  It is a
// convenience wrapper around SerializeCompressed and SerializeUncompressed.
func (p PublicKey) Serialize(compressed bool) []byte {
	if compressed {
		return p.SerializeCompressed()
	}
	return p.SerializeUncompressed()
}

// X returns the x coordinate of the public key as a big integer.  It is
// primarily provided for interoperability with code that works with the
// standard library crypto/elliptic curve interface.
func (p *PublicKey) X() *big.Int {
	b := p.x.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Y returns the y coordinate of the public key as a big integer.  It is
// primarily provided for interoperability with code that works with the
// standard library crypto/elliptic curve interface.
func (p *PublicKey) Y() *big.Int {
	b := p.y.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// IsEqual compares this public key instance to the one passed, returning
// true if both public keys are equivalent.  A public key is equivalent to
// another if they both have the same x and y coordinates.
func (p *PublicKey) IsEqual(otherPubKey *PublicKey) bool {
	return p.x.Equals(&otherPubKey.x) && p.y.Equals(&otherPubKey.y)
}

// AsJacobian converts the public key into a Jacobian point with Z=1 and
// stores the result in the provided result param.  This allows the public key
// to be treated as a Jacobian point in the secp256k1 group in calculations.
func (p *PublicKey) AsJacobian(result *secp256k1.JacobianPoint) {
	result.X.Set(&p.x)
	result.Y.Set(&p.y)
	result.Z.SetInt(1)
}

// IsOnCurve returns whether or not the public key represents a point on the
// secp256k1 curve.
func (p *PublicKey) IsOnCurve() bool {
	return isOnCurve(&p.x, &p.y)
}
