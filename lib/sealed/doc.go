// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts save containers at rest with age.
//
// It wraps filippo.io/age for the operations the bank tool needs:
// generate x25519 keypairs, seal a container to one or more public
// keys, and open it again with a private key. Sealed output is the
// binary age format, written to disk in place of the plain container;
// [IsSealed] tells the two apart by the age header line.
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair
//   - [Seal] / [Open] -- encrypt to recipients, decrypt with an identity
//   - [IsSealed] -- detect sealed containers
//   - [ParsePublicKey] / [ParseIdentity] / [RecipientOf] -- key handling
//   - [ReadIdentityFile] -- load an age-keygen style identity file
package sealed
