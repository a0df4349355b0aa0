// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package secpsig provides key material and point encoding facilities for the
secp256k1 elliptic curve.

The package is the foundation of a signature engine for UTXO-style ledgers.
It houses the curve domain parameters, private and public key material with
derivation of one from the other, and serialization of public keys in the
SEC compressed and uncompressed formats.  The ecdsa subpackage builds the
deterministic signer, the verifier, and the public key recovery engine on
top of it.

The low-level field and group arithmetic is intentionally not implemented
here.  All modular big-integer and elliptic curve point operations are
provided by the audited github.com/decred/dcrd/dcrec/secp256k1/v4 module,
since constant-time behavior and correctness of those primitives are
security critical and best reused from a vetted implementation.

An overview of the features provided by this package are as follows:

  - Curve domain parameters initialized exactly once and safe for
    concurrent access
  - Private key generation, serialization, and parsing with strict scalar
    range enforcement
  - Public key parsing per ANSI X9.62-1998 for the uncompressed, compressed,
    and hybrid formats
  - Public key serialization in the uncompressed and compressed formats
  - Point decompression from a given x coordinate and y parity

Errors returned by this package have full support for the standard library
errors.Is and errors.As functions, so the caller may inspect the specific
ErrorKind a failure wraps.
*/
package secpsig
