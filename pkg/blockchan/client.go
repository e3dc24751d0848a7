// Package blockchan is a client for a minimal social board program on the
// Solana ledger. Users pay a fixed fee to create posts and comments and to
// like posts; the package assembles and submits the transactions, then
// reads the resulting record accounts back for rendering.
package blockchan

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/blockchan/blockchan-server/pkg/solana"
	"github.com/blockchan/blockchan-server/pkg/solana/board"
)

// Client performs board operations against a ledger endpoint.
type Client struct {
	log    *logrus.Entry
	conf   Config
	solana solana.Client

	phaseObserver func(Phase)
}

type Option func(*Client)

// WithPhaseObserver registers a callback invoked on every submission phase
// transition. Callbacks must be fast; they run inline with submission.
func WithPhaseObserver(fn func(Phase)) Option {
	return func(c *Client) {
		c.phaseObserver = fn
	}
}

// New returns a client for the configured endpoint.
func New(conf Config, opts ...Option) (*Client, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return NewWithClient(conf, solana.New(conf.Endpoint), opts...)
}

// NewWithClient returns a client using the provided RPC client.
func NewWithClient(conf Config, sc solana.Client, opts ...Option) (*Client, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		log:    logrus.StandardLogger().WithField("type", "blockchan/client"),
		conf:   conf,
		solana: sc,
	}

	for _, o := range opts {
		o(c)
	}

	return c, nil
}

// CreatePostResult reports a successfully confirmed post creation.
type CreatePostResult struct {
	Signature solana.Signature

	// PostID is the record account's address, used to reference the post
	// in comments and likes.
	PostID string

	// Seed is a client side tracking id; it never reaches the ledger.
	Seed string
}

// CreatePost creates a post record, charging the creation fee to the
// wallet and paying it to the fee wallet.
func (c *Client) CreatePost(ctx context.Context, wallet Wallet, title, content string) (*CreatePostResult, error) {
	c.setPhase(PhaseAssembling)

	assembled, err := c.buildCreatePost(wallet, title, content)
	if err != nil {
		return nil, err
	}

	sig, err := c.submitAndConfirm(ctx, wallet, assembled)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"signature": sig.ToBase58(),
		"post":      base58.Encode(assembled.record),
	}).Info("post created")

	return &CreatePostResult{
		Signature: sig,
		PostID:    base58.Encode(assembled.record),
		Seed:      assembled.seed,
	}, nil
}

// CreateCommentResult reports a successfully confirmed comment creation.
type CreateCommentResult struct {
	Signature solana.Signature
	CommentID string
	Seed      string
}

// CreateComment appends a comment to a post, charging the comment fee to
// the wallet and paying it to the post owner.
func (c *Client) CreateComment(ctx context.Context, wallet Wallet, postID, postOwner, content string) (*CreateCommentResult, error) {
	c.setPhase(PhaseAssembling)

	assembled, err := c.buildCreateComment(wallet, postID, postOwner, content)
	if err != nil {
		return nil, err
	}

	sig, err := c.submitAndConfirm(ctx, wallet, assembled)
	if err != nil {
		return nil, err
	}

	return &CreateCommentResult{
		Signature: sig,
		CommentID: base58.Encode(assembled.record),
		Seed:      assembled.seed,
	}, nil
}

// LikePost increments a post's vote count, charging the like fee to the
// wallet and paying it to the post owner. The updated vote count is only
// visible on a subsequent fetch; no local state is adjusted.
func (c *Client) LikePost(ctx context.Context, wallet Wallet, postID, postOwner string) (solana.Signature, error) {
	c.setPhase(PhaseAssembling)

	assembled, err := c.buildLikePost(wallet, postID, postOwner)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submitAndConfirm(ctx, wallet, assembled)
}

// FetchPosts returns all decodable post records, sorted by the given order.
func (c *Client) FetchPosts(order SortOrder) ([]Post, ScanStats, error) {
	return c.scanPosts(nil, order)
}

// FetchPostsByCreator returns the posts created by the given account.
func (c *Client) FetchPostsByCreator(creator ed25519.PublicKey, order SortOrder) ([]Post, ScanStats, error) {
	return c.scanPosts(func(record *board.PostAccount) bool {
		return record.Creator.Equal(creator)
	}, order)
}

// FetchComments returns the comments attached to the given post, newest
// first.
func (c *Client) FetchComments(postID string) ([]Comment, ScanStats, error) {
	return c.scanComments(postID)
}

// Balance is an account balance in the ledger's smallest denomination.
type Balance struct {
	Lamports uint64
}

// Sol returns the balance in whole SOL.
func (b Balance) Sol() float64 {
	return Sol(b.Lamports)
}

// GetBalance returns the account's balance. Accounts the ledger has never
// seen report a zero balance.
func (c *Client) GetBalance(account ed25519.PublicKey) (Balance, error) {
	lamports, err := c.solana.GetBalance(account)
	if err == solana.ErrNoBalance {
		return Balance{}, nil
	}
	if err != nil {
		return Balance{}, &NetworkError{Operation: "getBalance", Cause: err}
	}

	return Balance{Lamports: lamports}, nil
}

// RequestAirdrop requests lamports from the devnet faucet and waits for the
// airdrop transaction to confirm.
func (c *Client) RequestAirdrop(ctx context.Context, account ed25519.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.solana.RequestAirdrop(account, lamports, solana.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, &NetworkError{Operation: "requestAirdrop", Cause: err}
	}

	c.setPhase(PhaseConfirming)
	return sig, c.confirm(ctx, sig)
}
