// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/utxoforge/secpsig"
)

const (
	// compactSigSize is the size of a compact signature.  It consists of a
	// compact signature recovery code byte followed by the R and S components
	// serialized as 32-byte big-endian values.
	compactSigSize = 65

	// compactSigMagicOffset is a value used when creating the compact
	// signature recovery code inherited from Bitcoin and has no meaning, but
	// has been retained for compatibility.  For historical reference, the
	// magic offset was originally picked to avoid a binary representation
	// that would allow compact signatures to be mistaken for other
	// components.
	compactSigMagicOffset = 27

	// compactSigCompPubKey is a value used when creating the compact
	// signature recovery code to indicate the original public key was
	// compressed.
	compactSigCompPubKey = 4
)

// hexToFieldVal converts the passed hex string into a FieldVal and will panic
// if there is an error.  This is only provided for the hard-coded constants
// so errors in the source code can be detected.  It will only (and must only)
// be called with hard-coded values.
func hexToFieldVal(s string) *secp256k1.FieldVal {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	var f secp256k1.FieldVal
	if overflow := f.SetByteSlice(b); overflow {
		panic("hex in source file overflows mod P: " + s)
	}
	return &f
}

// orderAsFieldVal is the group order of the secp256k1 curve represented as a
// field value.  It is used during public key recovery to select the second x
// coordinate candidate.
var orderAsFieldVal = hexToFieldVal(
	"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

// recoverPubKey reconstructs the candidate public key from the signature over
// the given 256-bit digest and the two recovery bits packed into the
// provided recovery code.  It implements the algorithm found in section 4.1.6
// of [SEC1] for the single candidate the code selects.
//
// The subgroupCheck parameter determines whether the reconstructed candidate
// point is confirmed to be on the subgroup of the group order by multiplying
// it by the order and requiring the point at infinity.  The check is
// mandated by [SEC1] step 1.4 and retained for recovery ids supplied by
// external callers even though every point on a cofactor-1 curve satisfies
// it.
func recoverPubKey(sig *Signature, hash []byte, recoveryCode byte, subgroupCheck bool) (*secpsig.PublicKey, error) {
	// The recovery code packs two independent bits: bit 1 selects which of
	// the two possible x coordinate candidates to use (step 1.1, x = r + jN
	// with j in [0, cofactor]), and bit 0 selects the oddness of the y
	// coordinate (steps 1.2 and 1.3).
	oddY := recoveryCode&0x01 != 0
	secondCandidate := recoveryCode&0x02 != 0

	// Step 1.1.
	//
	// x = r + jN
	//
	// The x coordinate lives in the coordinate field, so convert r to a
	// field value and add the order for the second candidate.
	rBytes := sig.r.Bytes()
	var fieldR secp256k1.FieldVal
	fieldR.SetBytes(&rBytes)
	if secondCandidate {
		// Step 1.2 requires x < P.  Since the R component is bounded by the
		// group order, only the second candidate can overflow the field
		// prime, and only when R < P - N would the sum remain a valid
		// coordinate.
		if fieldR.IsGtOrEqPrimeMinusOrder() {
			str := "invalid signature: signature R + N >= P"
			return nil, signatureError(ErrSigOverflowsPrime, str)
		}
		fieldR.Add(orderAsFieldVal).Normalize()
	}

	// Steps 1.2 and 1.3.
	//
	// Reconstruct the candidate point from the x coordinate by solving the
	// curve equation for y and selecting the solution with the requested
	// oddness.  No candidate point exists for the recovery id when there is
	// no solution.
	var y secp256k1.FieldVal
	if !secp256k1.DecompressY(&fieldR, oddY, &y) {
		str := fmt.Sprintf("invalid signature: not a valid curve point x "+
			"coordinate: %v", fieldR)
		return nil, signatureError(ErrPointNotOnCurve, str)
	}
	y.Normalize()
	pointR := secpsig.NewPublicKey(&fieldR, &y)

	// Step 1.4.
	//
	// The candidate point must be on the subgroup of the group order, which
	// is confirmed by nR being the point at infinity.
	if subgroupCheck && !isInMainSubgroup(pointR) {
		str := "invalid signature: candidate point is not on the subgroup " +
			"of the group order"
		return nil, signatureError(ErrPointNotInGroup, str)
	}

	// Step 1.5.
	//
	// e = H(m) mod N
	var e secp256k1.ModNScalar
	e.SetByteSlice(hash)

	// Step 1.6.
	//
	// Q = r^-1(sR - eG)
	//
	// The two terms are computed separately as (r^-1 * s)R and
	// (r^-1 * -e)G so they can each use a scalar multiplication against the
	// respective point and then be combined with a single point addition.
	rInv := new(secp256k1.ModNScalar).InverseValNonConst(&sig.r)
	sTimesRInv := new(secp256k1.ModNScalar).Mul2(rInv, &sig.s)
	negETimesRInv := new(secp256k1.ModNScalar).Set(&e)
	negETimesRInv.Negate().Mul(rInv)

	var jacobianR, sR, negEG, q secp256k1.JacobianPoint
	pointR.AsJacobian(&jacobianR)
	secp256k1.ScalarMultNonConst(sTimesRInv, &jacobianR, &sR)
	secp256k1.ScalarBaseMultNonConst(negETimesRInv, &negEG)
	secp256k1.AddNonConst(&sR, &negEG, &q)

	// The point at infinity is not a valid public key.
	if (q.X.IsZero() && q.Y.IsZero()) || q.Z.IsZero() {
		str := "invalid signature: recovered pubkey is the point at infinity"
		return nil, signatureError(ErrPointNotOnCurve, str)
	}

	// Notice that the public key is in affine coordinates.
	q.ToAffine()
	return secpsig.NewPublicKey(&q.X, &q.Y), nil
}

// isInMainSubgroup returns whether or not the provided point is on the
// subgroup of the group order, which is the case exactly when multiplying the
// point by the order yields the point at infinity.
func isInMainSubgroup(pubKey *secpsig.PublicKey) bool {
	curve := secp256k1.S256()
	n := secpsig.Params().N
	nx, ny := curve.ScalarMult(pubKey.X(), pubKey.Y(), n.Bytes())
	return nx.Sign() == 0 && ny.Sign() == 0
}

// Recover attempts to reconstruct the public key associated with the
// signature over the given 256-bit digest for a single recovery id in the
// range [0, 3].  The reconstructed key is returned wrapped as public-only key
// material.
//
// Argument errors are returned with kinds ErrInvalidRecoveryID for an id
// outside the supported range, ErrSigRIsZero and ErrSigSIsZero for
// non-positive signature components, and ErrMissingDigest for an empty
// digest; those indicate caller errors and are never produced while
// enumerating ids.
//
// Errors with kinds ErrSigOverflowsPrime, ErrPointNotOnCurve, and
// ErrPointNotInGroup indicate no candidate public key exists for the
// provided id.  That is an expected outcome for up to two of the four ids,
// so callers searching for the correct id should treat those as an
// enumeration step rather than a hard failure.
//
// Note that recovering a public key alone proves nothing: callers that care
// which key signed must confirm the recovered key is the expected one through
// an external binding of key to identity.
func Recover(recoveryID int, sig *Signature, hash []byte) (*secpsig.Key, error) {
	if recoveryID < 0 || recoveryID > 3 {
		str := fmt.Sprintf("invalid recovery id: %d is not in [0, 3]",
			recoveryID)
		return nil, signatureError(ErrInvalidRecoveryID, str)
	}
	if len(hash) == 0 {
		str := "invalid digest: empty"
		return nil, signatureError(ErrMissingDigest, str)
	}
	if sig.r.IsZero() {
		str := "invalid signature: R is 0"
		return nil, signatureError(ErrSigRIsZero, str)
	}
	if sig.s.IsZero() {
		str := "invalid signature: S is 0"
		return nil, signatureError(ErrSigSIsZero, str)
	}

	pubKey, err := recoverPubKey(sig, hash, byte(recoveryID), true)
	if err != nil {
		return nil, err
	}
	return secpsig.KeyFromPublic(pubKey), nil
}

// SignCompact produces a compact signature of the provided 256-bit digest
// with the private scalar held by the passed key material.  The compact
// signature format is:
//
//	<1-byte compact sig recovery code><32-byte R><32-byte S>
//
// The compact sig recovery code is the value 27 + public key recovery code +
// 4 if the compressed parameter is true, which in turn detail if the public
// key reference during recovery should be serialized in the compressed
// format.
//
// The signature itself is produced exactly as by Sign, so it is
// deterministic and canonical.  It returns an error with kind
// secpsig.ErrNotPrivateKey when the key material only holds a public key.
func SignCompact(key *secpsig.Key, hash []byte, isCompressedKey bool) ([]byte, error) {
	privKey, err := key.PrivateScalar()
	if err != nil {
		return nil, err
	}
	defer privKey.Zero()

	sig, recoveryCode := signRFC6979(privKey, hash)

	compactSigRecoveryCode := compactSigMagicOffset + recoveryCode
	if isCompressedKey {
		compactSigRecoveryCode += compactSigCompPubKey
	}

	// Output <compactSigRecoveryCode><32-byte R><32-byte S>.
	var b [compactSigSize]byte
	b[0] = compactSigRecoveryCode
	sig.r.PutBytesUnchecked(b[1:33])
	sig.s.PutBytesUnchecked(b[33:65])
	return b[:], nil
}

// RecoverCompact attempts to recover the secp256k1 public key from the
// provided compact signature and 256-bit digest.  If successful, the
// recovered public key is returned along with a boolean indicating whether
// or not the original key was serialized in the compressed format.
func RecoverCompact(signature, hash []byte) (*secpsig.PublicKey, bool, error) {
	// The following is very loosely based on the information and algorithm
	// that describes recovering a public key from an ECDSA signature in
	// section 4.1.6 of [SEC1].
	//
	// Ensure the length of the signature matches the expected length of a
	// compact signature.
	if len(signature) != compactSigSize {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(signature), compactSigSize)
		return nil, false, signatureError(ErrSigInvalidLen, str)
	}

	// Ensure the compact signature recovery code is in the supported range.
	compactSigRecoveryCode := signature[0]
	if compactSigRecoveryCode < compactSigMagicOffset ||
		compactSigRecoveryCode >= compactSigMagicOffset+compactSigCompPubKey*2 {

		str := fmt.Sprintf("invalid signature: public key recovery code %d "+
			"is not in the valid range [%d, %d]", compactSigRecoveryCode,
			compactSigMagicOffset, compactSigMagicOffset+compactSigCompPubKey*2-1)
		return nil, false, signatureError(ErrSigInvalidRecoveryCode, str)
	}

	// Split the recovery code into the compression flag and the two recovery
	// bits.
	compactSigRecoveryCode -= compactSigMagicOffset
	wasCompressed := compactSigRecoveryCode&compactSigCompPubKey != 0
	recoveryCode := compactSigRecoveryCode & 3

	// Parse and validate the R and S signature components.
	//
	// Fail if r and s are not in [1, N-1].
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[1:33]); overflow {
		str := "invalid signature: R >= group order"
		return nil, false, signatureError(ErrSigRTooBig, str)
	}
	if r.IsZero() {
		str := "invalid signature: R is 0"
		return nil, false, signatureError(ErrSigRIsZero, str)
	}
	if overflow := s.SetByteSlice(signature[33:]); overflow {
		str := "invalid signature: S >= group order"
		return nil, false, signatureError(ErrSigSTooBig, str)
	}
	if s.IsZero() {
		str := "invalid signature: S is 0"
		return nil, false, signatureError(ErrSigSIsZero, str)
	}

	// The compact signature format was produced by the signing code in this
	// package, which only ever emits candidate points on the curve, so skip
	// the subgroup multiplication here.  Recovery ids from other sources go
	// through Recover, which performs it.
	sig := NewSignature(&r, &s)
	pubKey, err := recoverPubKey(sig, hash, recoveryCode, false)
	if err != nil {
		return nil, false, err
	}
	return pubKey, wasCompressed, nil
}
