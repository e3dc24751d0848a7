package board

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockchan/blockchan-server/pkg/solana"
	"github.com/blockchan/blockchan-server/pkg/solana/system"
)

func TestCreatePost_DataEncoding(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := CreatePost(keys[0].pub, keys[1].pub, keys[2].pub, keys[3].pub, "Hi", "World")

	expected := []byte{
		0x00,
		0x02, 0x00, 0x00, 0x00, 'H', 'i',
		0x05, 0x00, 0x00, 0x00, 'W', 'o', 'r', 'l', 'd',
	}
	assert.Equal(t, expected, instruction.Data)
}

func TestCreatePost_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 4)
	program, user, post, feeWallet := keys[0], keys[1], keys[2], keys[3]

	txn := solana.NewTransaction(
		user.pub,
		CreatePost(program.pub, user.pub, post.pub, feeWallet.pub, "gm", "first post"),
	)
	require.NoError(t, txn.Sign(user.priv, post.priv))

	decompiled, err := DecompileCreatePost(program.pub, txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, user.pub, decompiled.User)
	assert.Equal(t, post.pub, decompiled.Post)
	assert.Equal(t, feeWallet.pub, decompiled.FeeWallet)
	assert.Equal(t, "gm", decompiled.Title)
	assert.Equal(t, "first post", decompiled.Content)
}

func TestCreateComment_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 5)
	program, user, comment, post, owner := keys[0], keys[1], keys[2], keys[3], keys[4]

	postID := base58.Encode(post.pub)
	txn := solana.NewTransaction(
		user.pub,
		CreateComment(program.pub, user.pub, comment.pub, post.pub, owner.pub, postID, "nice"),
	)
	require.NoError(t, txn.Sign(user.priv))

	decompiled, err := DecompileCreateComment(program.pub, txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, user.pub, decompiled.User)
	assert.Equal(t, comment.pub, decompiled.Comment)
	assert.Equal(t, post.pub, decompiled.Post)
	assert.Equal(t, owner.pub, decompiled.PostOwner)
	assert.Equal(t, postID, decompiled.PostID)
	assert.Equal(t, "nice", decompiled.Content)
}

func TestLikePost_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 4)
	program, user, post, owner := keys[0], keys[1], keys[2], keys[3]

	postID := base58.Encode(post.pub)
	txn := solana.NewTransaction(
		user.pub,
		LikePost(program.pub, user.pub, post.pub, owner.pub, postID),
	)
	require.NoError(t, txn.Sign(user.priv))

	decompiled, err := DecompileLikePost(program.pub, txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, user.pub, decompiled.User)
	assert.Equal(t, post.pub, decompiled.Post)
	assert.Equal(t, owner.pub, decompiled.PostOwner)
	assert.Equal(t, postID, decompiled.PostID)
}

func TestDecompile_Mismatches(t *testing.T) {
	keys := generateKeys(t, 5)
	program, user, post, owner := keys[0], keys[1], keys[2], keys[3]

	txn := solana.NewTransaction(
		user.pub,
		LikePost(program.pub, user.pub, post.pub, owner.pub, "id"),
	)

	_, err := DecompileLikePost(keys[4].pub, txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	_, err = DecompileCreatePost(program.pub, txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	_, err = DecompileLikePost(program.pub, txn.Message, 1)
	assert.Error(t, err)
}

func TestSystemProgramReadonly(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := LikePost(keys[0].pub, keys[1].pub, keys[2].pub, keys[3].pub, "id")
	assert.Equal(t, ed25519.PublicKey(system.ProgramKey[:]), instruction.Accounts[3].PublicKey)
	assert.False(t, instruction.Accounts[3].IsWritable)
	assert.False(t, instruction.Accounts[3].IsSigner)
}

type testKey struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func generateKeys(t *testing.T, n int) []testKey {
	keys := make([]testKey, n)

	for i := 0; i < n; i++ {
		pub, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = testKey{pub, priv}
	}

	return keys
}
