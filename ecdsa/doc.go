// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ecdsa provides deterministic secp256k1 ECDSA signature generation,
verification, and public key recovery.

# Overview

Signatures are produced over 256-bit digests with nonces generated per
RFC 6979, so signing the same digest with the same key always yields the
same signature, and are canonicalized to the low-S form per BIP0062 to
remove malleability.  Verification accepts both the low-S and high-S forms.

Public key recovery reconstructs the signer's public key from a signature,
a small recovery id, and the signed digest, without the key being
transmitted separately.  The recovery id packs two bits: which of the two
possible x coordinate candidates the nonce point used and the parity of its
y coordinate.  Recover handles a single id per call; the compact signature
format produced by SignCompact embeds the id computed at signing time so
RecoverCompact never has to search.

Signatures serialize to strict DER for interchange via Serialize and
ParseDERSignature.

# Errors

Errors returned by this package have full support for the standard library
errors.Is and errors.As functions, so the caller may inspect the specific
ErrorKind a failure wraps.  Verification failure is reported as a false
return, never an error, so "signature is invalid" is always distinguishable
from "operation could not be attempted".
*/
package ecdsa
