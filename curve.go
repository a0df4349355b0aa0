// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secpsig

import (
	"math/big"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// CurveParams houses the domain parameters for the secp256k1 curve.  All of
// the fields are treated as constants and MUST NOT be modified by callers.
type CurveParams struct {
	// P is the prime modulus of the field the curve coordinates are taken
	// over.
	P *big.Int

	// N is the order of the cyclic subgroup generated by the base point.
	// All scalars and signature components are taken modulo N.
	N *big.Int

	// Gx and Gy are the affine coordinates of the base point.
	Gx *big.Int
	Gy *big.Int

	// H is the cofactor of the curve.
	H int

	// BitSize is the size of the underlying field in bits.
	BitSize int

	// ByteSize is simply the bit size / 8 and is provided for convenience
	// since it is calculated repeatedly.
	ByteSize int

	// HalfOrder is the group order shifted right by one bit.  Signatures
	// with an S component above this value are not in canonical form.
	HalfOrder *big.Int
}

var (
	// paramsOnce guards the one-time construction of the curve parameters so
	// concurrent first-time callers never observe a partially built value.
	paramsOnce sync.Once

	// params is the single process-wide instance of the curve parameters.
	// It is read-only after initialization.
	params *CurveParams
)

// initParams builds the domain parameters from the constants provided by the
// underlying primitives library.  Initialization cannot fail since the curve
// is hard coded.
func initParams() {
	src := secp256k1.Params()
	params = &CurveParams{
		P:         src.P,
		N:         src.N,
		Gx:        src.Gx,
		Gy:        src.Gy,
		H:         src.H,
		BitSize:   src.BitSize,
		ByteSize:  src.BitSize / 8,
		HalfOrder: new(big.Int).Rsh(src.N, 1),
	}
}

// Params returns the domain parameters for the secp256k1 curve.  The returned
// instance is shared by all callers for the lifetime of the process, is
// initialized exactly once, and is safe for concurrent access.
func Params() *CurveParams {
	paramsOnce.Do(initParams)
	return params
}
