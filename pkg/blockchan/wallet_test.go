package blockchan

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockchan/blockchan-server/pkg/solana"
)

// signingWallet can sign but not send.
type signingWallet struct {
	*LocalWallet
	signCalls int
}

func (w *signingWallet) SignTransaction(txn solana.Transaction) (solana.Transaction, error) {
	w.signCalls++
	return w.LocalWallet.SignTransaction(txn)
}

// sendOnlyWallet can submit but not sign.
type sendOnlyWallet struct {
	name      string
	key       ed25519.PrivateKey
	sendCalls int
}

func (w *sendOnlyWallet) Name() string { return w.name }

func (w *sendOnlyWallet) PublicKey() ed25519.PublicKey {
	return w.key.Public().(ed25519.PublicKey)
}

func (w *sendOnlyWallet) SendTransaction(txn solana.Transaction, sc solana.Client) (solana.Signature, error) {
	w.sendCalls++
	if err := txn.Sign(w.key); err != nil {
		return solana.Signature{}, err
	}
	return sc.SubmitRawTransaction(txn.Marshal(), solana.CommitmentConfirmed)
}

// fullWallet exposes both capabilities.
type fullWallet struct {
	*signingWallet
	sendCalls int
}

func (w *fullWallet) SendTransaction(txn solana.Transaction, sc solana.Client) (solana.Signature, error) {
	w.sendCalls++
	if err := txn.Sign(w.LocalWallet.key); err != nil {
		return solana.Signature{}, err
	}
	return sc.SubmitRawTransaction(txn.Marshal(), solana.CommitmentConfirmed)
}

// bareWallet has no transaction capabilities.
type bareWallet struct {
	key ed25519.PrivateKey
}

func (w *bareWallet) Name() string { return "Unknown" }

func (w *bareWallet) PublicKey() ed25519.PublicKey {
	return w.key.Public().(ed25519.PublicKey)
}

func TestWallet_ReserializeTakesPrecedence(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	// A wallet named Phantom with both capabilities signs over a
	// reserialized transaction rather than sending itself.
	wallet := &fullWallet{
		signingWallet: &signingWallet{LocalWallet: NewLocalWallet("Phantom", priv)},
	}

	rpc := &fakeRPC{}
	client := newTestClient(t, rpc)

	_, err = client.LikePost(context.Background(), wallet, testPostID(t), testPostID(t))
	require.NoError(t, err)

	assert.Equal(t, 1, wallet.signCalls)
	assert.Equal(t, 0, wallet.sendCalls)
	assert.Len(t, rpc.submittedRaw, 1)
}

func TestWallet_SendPreferredOverSign(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	// Outside the reserialize list, a wallet that can send owns submission.
	wallet := &fullWallet{
		signingWallet: &signingWallet{LocalWallet: NewLocalWallet("Backpack", priv)},
	}

	rpc := &fakeRPC{}
	client := newTestClient(t, rpc)

	_, err = client.LikePost(context.Background(), wallet, testPostID(t), testPostID(t))
	require.NoError(t, err)

	assert.Equal(t, 0, wallet.signCalls)
	assert.Equal(t, 1, wallet.sendCalls)
}

func TestWallet_ReserializeNameWithoutSigner(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	// A reserialize named wallet that cannot sign falls through to its
	// send capability rather than failing.
	wallet := &sendOnlyWallet{name: "Phantom", key: priv}

	rpc := &fakeRPC{}
	client := newTestClient(t, rpc)

	_, err = client.LikePost(context.Background(), wallet, testPostID(t), testPostID(t))
	require.NoError(t, err)
	assert.Equal(t, 1, wallet.sendCalls)
}

func TestWallet_SignOnly(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	wallet := &signingWallet{LocalWallet: NewLocalWallet("Backpack", priv)}

	rpc := &fakeRPC{}
	client := newTestClient(t, rpc)

	_, err = client.LikePost(context.Background(), wallet, testPostID(t), testPostID(t))
	require.NoError(t, err)

	assert.Equal(t, 1, wallet.signCalls)
	assert.Len(t, rpc.submittedRaw, 1)
}

func TestWallet_Unsupported(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	rpc := &fakeRPC{}
	client := newTestClient(t, rpc)

	_, err = client.LikePost(context.Background(), &bareWallet{key: priv}, testPostID(t), testPostID(t))
	assert.Equal(t, ErrUnsupportedWallet, err)
	assert.Empty(t, rpc.submittedRaw)
}

func TestWallet_ReserializePreservesRecordSignature(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	wallet := &signingWallet{LocalWallet: NewLocalWallet("Solflare", priv)}

	rpc := &fakeRPC{}
	client := newTestClient(t, rpc)

	// Post creation carries the record's signature through the round trip.
	_, err = client.CreatePost(context.Background(), wallet, "gm", "content")
	require.NoError(t, err)

	txn := rpc.lastSubmitted(t)
	require.Len(t, txn.Signatures, 2)
	for _, sig := range txn.Signatures {
		assert.NotEqual(t, solana.Signature{}, sig)
	}
}

func testPostID(t *testing.T) string {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	return base58.Encode(pub)
}
