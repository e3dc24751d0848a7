package blockchan

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/blockchan/blockchan-server/pkg/solana"
)

// Phase is the stage a submission is in, surfaced to observers for
// progress reporting.
type Phase uint8

const (
	PhaseAssembling Phase = iota
	PhaseAwaitingSignature
	PhaseSubmitting
	PhaseConfirming
)

func (p Phase) String() string {
	switch p {
	case PhaseAssembling:
		return "assembling"
	case PhaseAwaitingSignature:
		return "awaiting_signature"
	case PhaseSubmitting:
		return "submitting"
	case PhaseConfirming:
		return "confirming"
	default:
		return "unknown"
	}
}

func (c *Client) setPhase(p Phase) {
	c.log.WithField("phase", p.String()).Debug("phase transition")

	if c.phaseObserver != nil {
		c.phaseObserver(p)
	}
}

// submitAndConfirm hands the assembled transaction to the wallet, submits
// it, and blocks until the outcome is known or the confirmation window
// closes.
func (c *Client) submitAndConfirm(ctx context.Context, wallet Wallet, assembled *assembledTransaction) (solana.Signature, error) {
	c.setPhase(PhaseAwaitingSignature)
	sig, err := c.signAndSend(wallet, assembled.txn)
	if err != nil {
		return sig, err
	}

	c.setPhase(PhaseConfirming)
	return sig, c.confirm(ctx, sig)
}

// confirm polls for the signature's status until it confirms, fails, or the
// window closes. If polling itself breaks down, one direct status check is
// made before declaring the outcome unknown; the transaction may have
// landed while we could not observe it.
func (c *Client) confirm(ctx context.Context, sig solana.Signature) error {
	err := c.awaitConfirmed(ctx, sig)
	if err == nil {
		return nil
	}

	var rejected *TransactionRejectedError
	if errors.As(err, &rejected) {
		return err
	}

	statuses, statusErr := c.solana.GetSignatureStatuses([]solana.Signature{sig})
	if statusErr == nil && len(statuses) > 0 && statuses[0] != nil {
		if statuses[0].ErrorResult != nil {
			return &TransactionRejectedError{Signature: sig, Result: statuses[0].ErrorResult}
		}
		if statuses[0].Confirmed() {
			c.log.WithField("signature", sig.ToBase58()).Info("transaction confirmed on recheck")
			return nil
		}
	}

	return &ConfirmationError{Signature: sig, Cause: err}
}

func (c *Client) awaitConfirmed(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.conf.ConfirmationTimeout)
	defer cancel()

	for {
		statuses, err := c.solana.GetSignatureStatuses([]solana.Signature{sig})
		if err != nil {
			return err
		}

		if len(statuses) > 0 && statuses[0] != nil {
			if statuses[0].ErrorResult != nil {
				return &TransactionRejectedError{Signature: sig, Result: statuses[0].ErrorResult}
			}
			if statuses[0].Confirmed() {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(solana.PollRate):
		}
	}
}
