// Package hdwallet derives native segwit (BIP-84) addresses from a wallet
// extended public key. Derivation is pure and deterministic: no state, no
// network access.
package hdwallet

import (
	"bytes"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gontzalm/ghostsync"
)

// SLIP-132 version bytes. zpub keys carry the xpub payload with a different
// version prefix to signal BIP-84 derivation.
var (
	zpubVersion = []byte{0x04, 0xb2, 0x47, 0x46}
	xpubVersion = []byte{0x04, 0x88, 0xb2, 0x1e}
)

// Wallet derives receive and change addresses from an account-level extended
// public key (the m/84'/0'/0' node, as exported by wallets as zpub).
type Wallet struct {
	key    *hdkeychain.ExtendedKey
	params *chaincfg.Params
}

// New parses an extended public key in zpub or xpub encoding. A malformed
// key is a configuration error: there is nothing to retry.
func New(extended string) (*Wallet, error) {
	if strings.HasPrefix(extended, "zpub") {
		converted, err := zpubToXpub(extended)
		if err != nil {
			return nil, err
		}
		extended = converted
	}

	key, err := hdkeychain.NewKeyFromString(extended)
	if err != nil {
		return nil, ghostsync.Configf("malformed extended public key: %v", err)
	}
	if key.IsPrivate() {
		return nil, ghostsync.Configf("extended key is private, expected a public key")
	}
	return &Wallet{key: key, params: &chaincfg.MainNetParams}, nil
}

// Derive returns the bech32 P2WPKH address at (branch, index). It implements
// ghostsync.AddressDeriver.
func (w *Wallet) Derive(branch ghostsync.Branch, index uint32) (string, error) {
	branchKey, err := w.key.Derive(uint32(branch))
	if err != nil {
		return "", ghostsync.Configf("deriving %s branch: %v", branch, err)
	}
	child, err := branchKey.Derive(index)
	if err != nil {
		return "", ghostsync.Configf("deriving %s address %d: %v", branch, index, err)
	}

	pub, err := child.ECPubKey()
	if err != nil {
		return "", ghostsync.Configf("extracting public key at %s/%d: %v", branch, index, err)
	}
	addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), w.params)
	if err != nil {
		return "", ghostsync.Configf("encoding address at %s/%d: %v", branch, index, err)
	}
	return addr.EncodeAddress(), nil
}

// zpubToXpub swaps the SLIP-132 zpub version bytes for the plain xpub ones,
// which is what hdkeychain understands. The key material is unchanged.
func zpubToXpub(zpub string) (string, error) {
	raw := base58.Decode(zpub)
	if len(raw) != 82 {
		return "", ghostsync.Configf("malformed extended public key: wrong length")
	}
	payload, checksum := raw[:78], raw[78:]
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:4], checksum) {
		return "", ghostsync.Configf("malformed extended public key: bad checksum")
	}
	if !bytes.Equal(payload[:4], zpubVersion) {
		return "", ghostsync.Configf("malformed extended public key: unexpected version bytes")
	}

	converted := make([]byte, 78)
	copy(converted, xpubVersion)
	copy(converted[4:], payload[4:])
	return base58.Encode(append(converted, chainhash.DoubleHashB(converted)[:4]...)), nil
}
