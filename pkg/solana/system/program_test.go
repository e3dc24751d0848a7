package system

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockchan/blockchan-server/pkg/solana"
)

func TestCreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := CreateAccount(keys[0].pub, keys[1].pub, keys[2].pub, 12345, 567)

	txn := solana.NewTransaction(keys[0].pub, instruction)
	require.NoError(t, txn.Sign(keys[0].priv, keys[1].priv))

	decompiled, err := DecompileCreateAccount(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, keys[0].pub, decompiled.Funder)
	assert.Equal(t, keys[1].pub, decompiled.Address)
	assert.Equal(t, keys[2].pub, decompiled.Owner)
	assert.EqualValues(t, 12345, decompiled.Lamports)
	assert.EqualValues(t, 567, decompiled.Size)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := Transfer(keys[0].pub, keys[1].pub, 123456789)

	txn := solana.NewTransaction(keys[0].pub, instruction)
	require.NoError(t, txn.Sign(keys[0].priv))

	decompiled, err := DecompileTransfer(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, keys[0].pub, decompiled.Sender)
	assert.Equal(t, keys[1].pub, decompiled.Recipient)
	assert.EqualValues(t, 123456789, decompiled.Lamports)
}

func TestDecompile_Mismatches(t *testing.T) {
	keys := generateKeys(t, 3)

	txn := solana.NewTransaction(keys[0].pub, Transfer(keys[0].pub, keys[1].pub, 10))
	_, err := DecompileCreateAccount(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
	_, err = DecompileTransfer(txn.Message, 1)
	assert.Error(t, err)

	txn = solana.NewTransaction(keys[0].pub, CreateAccount(keys[0].pub, keys[1].pub, keys[2].pub, 1, 1))
	_, err = DecompileTransfer(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	other := solana.NewInstruction(keys[2].pub, []byte{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, solana.NewAccountMeta(keys[0].pub, true))
	txn = solana.NewTransaction(keys[0].pub, other)
	_, err = DecompileTransfer(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
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
