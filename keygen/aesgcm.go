// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
)

// deriveAESKey turns the x-coordinate of a pairwise ECDH point into a
// fixed-width AES-256 key.
func deriveAESKey(ecdh *big.Int) []byte {
	sum := sha256.Sum256(ecdh.Bytes())
	return sum[:]
}

func sealShare(ecdh *big.Int, plaintext []byte) (nonce, ciphertext []byte, err error) {
	block, err := aes.NewCipher(deriveAESKey(ecdh))
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	ciphertext = gcm.Seal(nil, nonce, plaintext, nil)
	return nonce, ciphertext, nil
}

func openShare(ecdh *big.Int, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(deriveAESKey(ecdh))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}
