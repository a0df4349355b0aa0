// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa_test

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/utxoforge/secpsig"
	"github.com/utxoforge/secpsig/ecdsa"
)

// This example demonstrates signing a message with a secp256k1 private key
// that is first parsed from raw bytes and serializing the generated signature.
func Example_signMessage() {
	// Decode a hex-encoded private key.
	pkBytes, err := hex.DecodeString("22a47fa09a223f2aa079edf85a7c2d4f87" +
		"20ee63e502ee2869afab7de234b80c")
	if err != nil {
		fmt.Println(err)
		return
	}
	key, err := secpsig.PrivateKeyFromBytes(pkBytes)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Sign a message using the private key.
	message := "test message"
	messageHash := chainhash.HashB([]byte(message))
	signature, err := ecdsa.Sign(key, messageHash)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Verify the signature for the message using the public key.
	verified := signature.Verify(messageHash, key.Public())
	fmt.Println("Signature Verified?", verified)

	// Output:
	// Signature Verified? true
}

// This example demonstrates recovering the public key of the signer from a
// compact signature and the signed message digest.
func Example_recoverPubKey() {
	// Decode a hex-encoded private key and sign a message digest with it,
	// requesting the compressed public key encoding during recovery.
	pkBytes, err := hex.DecodeString("22a47fa09a223f2aa079edf85a7c2d4f87" +
		"20ee63e502ee2869afab7de234b80c")
	if err != nil {
		fmt.Println(err)
		return
	}
	key, err := secpsig.PrivateKeyFromBytes(pkBytes)
	if err != nil {
		fmt.Println(err)
		return
	}
	messageHash := chainhash.HashB([]byte("test message"))
	signature, err := ecdsa.SignCompact(key, messageHash, true)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Recover the public key from the compact signature and confirm it
	// matches the public key derived from the private key above.
	pubKey, wasCompressed, err := ecdsa.RecoverCompact(signature, messageHash)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Recovered key matches?", pubKey.IsEqual(key.Public()))
	fmt.Println("Was compressed?", wasCompressed)

	// Output:
	// Recovered key matches? true
	// Was compressed? true
}
