package blockchan

import (
	"crypto/ed25519"
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/blockchan/blockchan-server/pkg/retry"
	"github.com/blockchan/blockchan-server/pkg/retry/backoff"
	"github.com/blockchan/blockchan-server/pkg/solana"
	"github.com/blockchan/blockchan-server/pkg/solana/board"
	"github.com/blockchan/blockchan-server/pkg/solana/system"
)

// assembledTransaction is a fully formed transaction awaiting the wallet's
// signature. The blockhash is attached and any record keypair has already
// partially signed.
type assembledTransaction struct {
	txn solana.Transaction

	// The new record account, when the operation creates one.
	record ed25519.PublicKey
	seed   string
}

func (c *Client) buildCreatePost(wallet Wallet, title, content string) (*assembledTransaction, error) {
	payer, err := payerKey(wallet)
	if err != nil {
		return nil, err
	}

	record, recordKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate post keypair")
	}

	txn := solana.NewTransaction(
		payer,
		system.Transfer(payer, c.conf.FeeWallet, c.conf.CreatePostFee),
		board.CreatePost(c.conf.Program, payer, record, c.conf.FeeWallet, title, content),
	)

	bh, err := c.latestBlockhash()
	if err != nil {
		return nil, err
	}
	txn.SetBlockhash(bh)

	// The program creates the record through an inner system call, which
	// requires the record account's signature up front.
	if err := txn.Sign(recordKey); err != nil {
		return nil, errors.Wrap(err, "failed to sign with post keypair")
	}

	return &assembledTransaction{
		txn:    txn,
		record: record,
		seed:   recordSeed("post"),
	}, nil
}

func (c *Client) buildCreateComment(wallet Wallet, postID, postOwner, content string) (*assembledTransaction, error) {
	payer, err := payerKey(wallet)
	if err != nil {
		return nil, err
	}

	post, err := decodeKey(postID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid post id")
	}
	owner, err := decodeKey(postOwner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid post owner")
	}

	record, recordKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate comment keypair")
	}

	// Comment records are created by the client, so the allocation must be
	// rent exempt for its exact serialized size.
	size := board.CommentAccountSize(postID, content)
	rent, err := c.solana.GetMinimumBalanceForRentExemption(size)
	if err != nil {
		return nil, &NetworkError{Operation: "getMinimumBalanceForRentExemption", Cause: err}
	}

	txn := solana.NewTransaction(
		payer,
		system.CreateAccount(payer, record, c.conf.Program, rent, size),
		system.Transfer(payer, owner, c.conf.CreateCommentFee),
		board.CreateComment(c.conf.Program, payer, record, post, owner, postID, content),
	)

	bh, err := c.latestBlockhash()
	if err != nil {
		return nil, err
	}
	txn.SetBlockhash(bh)

	if err := txn.Sign(recordKey); err != nil {
		return nil, errors.Wrap(err, "failed to sign with comment keypair")
	}

	return &assembledTransaction{
		txn:    txn,
		record: record,
		seed:   recordSeed("comment"),
	}, nil
}

func (c *Client) buildLikePost(wallet Wallet, postID, postOwner string) (*assembledTransaction, error) {
	payer, err := payerKey(wallet)
	if err != nil {
		return nil, err
	}

	post, err := decodeKey(postID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid post id")
	}
	owner, err := decodeKey(postOwner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid post owner")
	}

	txn := solana.NewTransaction(
		payer,
		system.Transfer(payer, owner, c.conf.LikePostFee),
		board.LikePost(c.conf.Program, payer, post, owner, postID),
	)

	bh, err := c.latestBlockhash()
	if err != nil {
		return nil, err
	}
	txn.SetBlockhash(bh)

	return &assembledTransaction{txn: txn}, nil
}

// latestBlockhash fetches a recent blockhash, retrying once after a fixed
// delay. Assembly cannot proceed without one.
func (c *Client) latestBlockhash() (solana.Blockhash, error) {
	var bh solana.Blockhash

	_, err := retry.Retry(
		func() error {
			var err error
			bh, err = c.solana.GetLatestBlockhash()
			return err
		},
		retry.Limit(2),
		retry.Backoff(backoff.Constant(c.conf.BlockhashRetryDelay), c.conf.BlockhashRetryDelay),
	)
	if err != nil {
		return bh, &NetworkError{Operation: "getLatestBlockhash", Cause: err}
	}

	return bh, nil
}

// decodeKey parses a base58 account id. Anything that doesn't decode to a
// 32 byte key is rejected before a malformed account list reaches the wire.
func decodeKey(id string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(id)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid key length: %d", len(raw))
	}

	return raw, nil
}

func payerKey(wallet Wallet) (ed25519.PublicKey, error) {
	if wallet == nil {
		return nil, ErrMissingSigner
	}

	payer := wallet.PublicKey()
	if len(payer) != ed25519.PublicKeySize {
		return nil, ErrMissingSigner
	}

	return payer, nil
}

// recordSeed produces a client side tracking id for a new record. It never
// reaches the ledger.
func recordSeed(kind string) string {
	return fmt.Sprintf("%s_%s", kind, uuid.New().String())
}
