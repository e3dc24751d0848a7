package blockchan

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/blockchan/blockchan-server/pkg/solana"
)

// Wallet is a connected identity that pays for and authorizes transactions.
//
// A Wallet may additionally implement TransactionSigner, TransactionSender,
// or both. Capability selection happens at submission time:
//
//  1. Wallets named in reserializeWallets that can sign have the assembled
//     transaction round tripped through the wire format before signing.
//     Their adapters reject transactions carrying foreign in-memory state,
//     so they get a freshly unmarshaled copy.
//  2. Wallets that can send are handed the transaction and the RPC client,
//     and own both signing and submission.
//  3. Wallets that can sign have the signed transaction submitted raw.
//
// A reserialize named wallet that cannot sign falls through to the
// remaining capabilities instead of failing outright.
//
// A wallet with none of these capabilities fails with ErrUnsupportedWallet.
// Submission is attempted exactly once per capability resolution; a signing
// failure is not retried against a lesser capability.
type Wallet interface {
	Name() string
	PublicKey() ed25519.PublicKey
}

// TransactionSigner is a wallet capability that signs a transaction without
// submitting it.
type TransactionSigner interface {
	SignTransaction(solana.Transaction) (solana.Transaction, error)
}

// TransactionSender is a wallet capability that signs and submits a
// transaction itself.
type TransactionSender interface {
	SendTransaction(solana.Transaction, solana.Client) (solana.Signature, error)
}

// Wallets whose adapters require a reserialized transaction before signing.
var reserializeWallets = map[string]struct{}{
	"Solflare": {},
	"Phantom":  {},
}

func (c *Client) signAndSend(wallet Wallet, txn solana.Transaction) (solana.Signature, error) {
	signer, canSign := wallet.(TransactionSigner)
	sender, canSend := wallet.(TransactionSender)

	_, reserialize := reserializeWallets[wallet.Name()]

	switch {
	case reserialize && canSign:
		var copied solana.Transaction
		if err := copied.Unmarshal(txn.Marshal()); err != nil {
			return solana.Signature{}, errors.Wrap(err, "failed to reserialize transaction")
		}

		signed, err := signer.SignTransaction(copied)
		if err != nil {
			return solana.Signature{}, errors.Wrap(err, "wallet failed to sign transaction")
		}

		c.setPhase(PhaseSubmitting)
		return c.solana.SubmitRawTransaction(signed.Marshal(), solana.CommitmentConfirmed)

	case canSend:
		c.setPhase(PhaseSubmitting)
		return sender.SendTransaction(txn, c.solana)

	case canSign:
		signed, err := signer.SignTransaction(txn)
		if err != nil {
			return solana.Signature{}, errors.Wrap(err, "wallet failed to sign transaction")
		}

		c.setPhase(PhaseSubmitting)
		return c.solana.SubmitRawTransaction(signed.Marshal(), solana.CommitmentConfirmed)

	default:
		return solana.Signature{}, ErrUnsupportedWallet
	}
}

// LocalWallet is a keypair backed wallet, useful for tooling and tests.
type LocalWallet struct {
	name string
	key  ed25519.PrivateKey
}

func NewLocalWallet(name string, key ed25519.PrivateKey) *LocalWallet {
	return &LocalWallet{
		name: name,
		key:  key,
	}
}

func (w *LocalWallet) Name() string {
	return w.name
}

func (w *LocalWallet) PublicKey() ed25519.PublicKey {
	return w.key.Public().(ed25519.PublicKey)
}

func (w *LocalWallet) SignTransaction(txn solana.Transaction) (solana.Transaction, error) {
	if err := txn.Sign(w.key); err != nil {
		return txn, err
	}

	return txn, nil
}
