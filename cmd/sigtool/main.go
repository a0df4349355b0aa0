// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// sigtool is a command line utility that exercises the secpsig library.  It
// generates keys, signs digests, verifies and recovers signatures, and
// checks block hashes against a checkpoint file.
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"

	"github.com/utxoforge/secpsig"
	"github.com/utxoforge/secpsig/checkpoints"
	"github.com/utxoforge/secpsig/ecdsa"
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func usage(parser *flags.Parser) {
	parser.WriteHelp(os.Stderr)
	fmt.Fprintln(os.Stderr, `
Commands:
  genkey                            generate a private/public key pair
  pubkey <privkey>                  derive the public key for a private key
  sign <privkey> <digest>           sign a 32-byte digest
  verify <pubkey> <digest> <sig>    verify a DER signature
  recover <sig> <digest>            recover the public key from a compact signature
  checkpoint <file> <height> <hash> check a block hash against a checkpoint file

All keys, digests, signatures, and hashes are hex encoded.`)
	os.Exit(2)
}

type config struct {
	Uncompressed       bool `short:"u" long:"uncompressed" description:"serialize public keys in the 65-byte uncompressed format"`
	DisableCheckpoints bool `long:"nocheckpoints" description:"treat every block hash as consistent regardless of the checkpoint file"`
	Quiet              bool `short:"q" long:"quiet" description:"suppress checkpoint verification logging"`
}

// decodeHex decodes the provided command line argument as hex and exits with
// an error message on failure.
func decodeHex(name, s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		fatalf("invalid %s: %v\n", name, err)
	}
	return b
}

// decodeDigest decodes the provided command line argument as a hex-encoded
// 32-byte digest and exits with an error message on failure.
func decodeDigest(s string) []byte {
	digest := decodeHex("digest", s)
	if len(digest) != chainhash.HashSize {
		fatalf("invalid digest: must be %d bytes, got %d\n",
			chainhash.HashSize, len(digest))
	}
	return digest
}

// decodePrivKey decodes and parses the provided command line argument as a
// hex-encoded private key and exits with an error message on failure.
func decodePrivKey(s string) *secpsig.Key {
	key, err := secpsig.PrivateKeyFromBytes(decodeHex("private key", s))
	if err != nil {
		fatalf("invalid private key: %v\n", err)
	}
	return key
}

func genKey(cfg *config) {
	key := secpsig.GenerateKey()
	defer key.Zero()

	privBytes, err := key.SerializedPrivate()
	if err != nil {
		fatalf("serialize private key: %v\n", err)
	}
	fmt.Printf("private: %x\n", privBytes)
	fmt.Printf("public:  %x\n", key.SerializedPublic(!cfg.Uncompressed))
}

func pubKey(cfg *config, privHex string) {
	key := decodePrivKey(privHex)
	defer key.Zero()

	fmt.Printf("%x\n", key.SerializedPublic(!cfg.Uncompressed))
}

func sign(cfg *config, privHex, digestHex string) {
	key := decodePrivKey(privHex)
	defer key.Zero()
	digest := decodeDigest(digestHex)

	sig, err := ecdsa.Sign(key, digest)
	if err != nil {
		fatalf("sign: %v\n", err)
	}
	compactSig, err := ecdsa.SignCompact(key, digest, !cfg.Uncompressed)
	if err != nil {
		fatalf("sign: %v\n", err)
	}
	fmt.Printf("der:     %x\n", sig.Serialize())
	fmt.Printf("compact: %x\n", compactSig)
}

func verify(pubHex, digestHex, sigHex string) {
	pub, err := secpsig.ParsePubKey(decodeHex("public key", pubHex))
	if err != nil {
		fatalf("invalid public key: %v\n", err)
	}
	digest := decodeDigest(digestHex)
	sig, err := ecdsa.ParseDERSignature(decodeHex("signature", sigHex))
	if err != nil {
		fatalf("invalid signature: %v\n", err)
	}

	if !sig.Verify(digest, pub) {
		fmt.Println("INVALID")
		os.Exit(1)
	}
	fmt.Println("OK")
}

func recoverKey(sigHex, digestHex string) {
	sig := decodeHex("signature", sigHex)
	digest := decodeDigest(digestHex)

	pub, wasCompressed, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		fatalf("recover: %v\n", err)
	}
	fmt.Printf("%x\n", pub.Serialize(wasCompressed))
}

// loadCheckpoints parses a checkpoint file with one "height:hash" entry per
// line.  Blank lines and lines starting with # are ignored.
func loadCheckpoints(filename string) ([]checkpoints.Checkpoint, error) {
	fi, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fi.Close()

	var result []checkpoints.Checkpoint
	scanner := bufio.NewScanner(fi)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		height, hashStr, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %d: malformed checkpoint %q", lineNum,
				line)
		}
		h, err := strconv.ParseInt(height, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid height %q", lineNum,
				height)
		}
		hash, err := chainhash.NewHashFromStr(hashStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid hash %q: %w", lineNum,
				hashStr, err)
		}
		result = append(result, checkpoints.Checkpoint{Height: h, Hash: hash})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func checkpoint(cfg *config, filename, heightStr, hashStr string) {
	if !cfg.Quiet {
		backend := slog.NewBackend(os.Stdout)
		logger := backend.Logger("CHKP")
		logger.SetLevel(slog.LevelInfo)
		checkpoints.UseLogger(logger)
	}

	cps, err := loadCheckpoints(filename)
	if err != nil {
		fatalf("load checkpoints: %v\n", err)
	}
	registry, err := checkpoints.New(cps, cfg.DisableCheckpoints)
	if err != nil {
		fatalf("load checkpoints: %v\n", err)
	}

	height, err := strconv.ParseInt(heightStr, 10, 64)
	if err != nil {
		fatalf("invalid height %q\n", heightStr)
	}
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		fatalf("invalid hash %q: %v\n", hashStr, err)
	}

	if !registry.IsConsistent(height, hash) {
		fmt.Printf("MISMATCH: checkpoint at height %d expects %s\n", height,
			registry.At(height))
		os.Exit(1)
	}
	fmt.Println("OK")
}

func main() {
	var cfg config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS] command [args]"
	args, err := parser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) {
			if e.Type != flags.ErrHelp {
				os.Exit(1)
			}
			os.Exit(0)
		}
		os.Exit(1)
	}

	if len(args) < 1 {
		usage(parser)
	}

	command, args := args[0], args[1:]
	switch {
	case command == "genkey" && len(args) == 0:
		genKey(&cfg)
	case command == "pubkey" && len(args) == 1:
		pubKey(&cfg, args[0])
	case command == "sign" && len(args) == 2:
		sign(&cfg, args[0], args[1])
	case command == "verify" && len(args) == 3:
		verify(args[0], args[1], args[2])
	case command == "recover" && len(args) == 2:
		recoverKey(args[0], args[1])
	case command == "checkpoint" && len(args) == 3:
		checkpoint(&cfg, args[0], args[1], args[2])
	default:
		usage(parser)
	}
}
