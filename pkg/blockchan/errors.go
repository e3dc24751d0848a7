package blockchan

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/blockchan/blockchan-server/pkg/solana"
)

var (
	// ErrMissingSigner indicates no wallet was provided to pay for and
	// authorize the transaction.
	ErrMissingSigner = errors.New("transaction fee payer required")

	// ErrUnsupportedWallet indicates the wallet exposes neither a signing
	// nor a sending capability.
	ErrUnsupportedWallet = errors.New("wallet does not support signing or sending transactions")
)

// ConfirmationError indicates a transaction was submitted but its outcome
// could not be established before giving up. The transaction may still land.
type ConfirmationError struct {
	Signature solana.Signature
	Cause     error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("transaction %s not confirmed: %v", e.Signature.ToBase58(), e.Cause)
}

func (e *ConfirmationError) Unwrap() error {
	return e.Cause
}

// TransactionRejectedError indicates the ledger processed the transaction
// and reported a failure.
type TransactionRejectedError struct {
	Signature solana.Signature
	Result    *solana.TransactionError
}

func (e *TransactionRejectedError) Error() string {
	return fmt.Sprintf("transaction %s rejected: %v", e.Signature.ToBase58(), e.Result)
}

func (e *TransactionRejectedError) Unwrap() error {
	if e.Result == nil {
		return nil
	}
	return e.Result
}

// NetworkError indicates an RPC interaction failed before a transaction
// outcome was at stake.
type NetworkError struct {
	Operation string
	Cause     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}
