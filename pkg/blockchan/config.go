package blockchan

import (
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/blockchan/blockchan-server/pkg/solana"
)

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

const (
	// DefaultProgramID is the board program deployed on devnet.
	DefaultProgramID = "bWbGoUe1QUVfy2uUTcMgq8jrQjn6uHKzDr9EdwhNWtf"

	// DefaultFeeWallet collects post creation fees.
	DefaultFeeWallet = "A3zCw8i5c4dEV5NRCeqPgwbZKCe1dpjxYsp699Hj19sh"

	// Fixed fees, in lamports.
	DefaultCreatePostFee    = 10_000_000 // 0.01 SOL, paid to the fee wallet
	DefaultCreateCommentFee = 5_000_000  // 0.005 SOL, paid to the post owner
	DefaultLikePostFee      = 1_000_000  // 0.001 SOL, paid to the post owner

	defaultConfirmationTimeout = 60 * time.Second
	defaultBlockhashRetryDelay = 2 * time.Second

	envPrefix = "blockchan"

	configKeyEndpoint            = "endpoint"
	configKeyProgram             = "program"
	configKeyFeeWallet           = "fee_wallet"
	configKeyCreatePostFee       = "create_post_fee"
	configKeyCreateCommentFee    = "create_comment_fee"
	configKeyLikePostFee         = "like_post_fee"
	configKeyConfirmationTimeout = "confirmation_timeout"
	configKeyBlockhashRetryDelay = "blockhash_retry_delay"
)

// Config holds the ledger endpoint, program identities, and fee schedule.
type Config struct {
	Endpoint string

	Program   ed25519.PublicKey
	FeeWallet ed25519.PublicKey

	CreatePostFee    uint64
	CreateCommentFee uint64
	LikePostFee      uint64

	ConfirmationTimeout time.Duration
	BlockhashRetryDelay time.Duration
}

// DefaultConfig returns the devnet configuration.
func DefaultConfig() Config {
	program, err := base58.Decode(DefaultProgramID)
	if err != nil {
		panic(err)
	}
	feeWallet, err := base58.Decode(DefaultFeeWallet)
	if err != nil {
		panic(err)
	}

	return Config{
		Endpoint:            string(solana.EnvironmentDev),
		Program:             program,
		FeeWallet:           feeWallet,
		CreatePostFee:       DefaultCreatePostFee,
		CreateCommentFee:    DefaultCreateCommentFee,
		LikePostFee:         DefaultLikePostFee,
		ConfirmationTimeout: defaultConfirmationTimeout,
		BlockhashRetryDelay: defaultBlockhashRetryDelay,
	}
}

// LoadConfig returns the default configuration overridden by any
// BLOCKCHAN_* environment variables.
func LoadConfig() (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(configKeyEndpoint, defaults.Endpoint)
	v.SetDefault(configKeyProgram, DefaultProgramID)
	v.SetDefault(configKeyFeeWallet, DefaultFeeWallet)
	v.SetDefault(configKeyCreatePostFee, defaults.CreatePostFee)
	v.SetDefault(configKeyCreateCommentFee, defaults.CreateCommentFee)
	v.SetDefault(configKeyLikePostFee, defaults.LikePostFee)
	v.SetDefault(configKeyConfirmationTimeout, defaults.ConfirmationTimeout)
	v.SetDefault(configKeyBlockhashRetryDelay, defaults.BlockhashRetryDelay)

	program, err := base58.Decode(v.GetString(configKeyProgram))
	if err != nil {
		return Config{}, errors.Wrap(err, "invalid program id")
	}
	feeWallet, err := base58.Decode(v.GetString(configKeyFeeWallet))
	if err != nil {
		return Config{}, errors.Wrap(err, "invalid fee wallet")
	}

	conf := Config{
		Endpoint:            v.GetString(configKeyEndpoint),
		Program:             program,
		FeeWallet:           feeWallet,
		CreatePostFee:       v.GetUint64(configKeyCreatePostFee),
		CreateCommentFee:    v.GetUint64(configKeyCreateCommentFee),
		LikePostFee:         v.GetUint64(configKeyLikePostFee),
		ConfirmationTimeout: v.GetDuration(configKeyConfirmationTimeout),
		BlockhashRetryDelay: v.GetDuration(configKeyBlockhashRetryDelay),
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if len(c.Program) != ed25519.PublicKeySize {
		return errors.New("program id must be a 32 byte key")
	}
	if len(c.FeeWallet) != ed25519.PublicKeySize {
		return errors.New("fee wallet must be a 32 byte key")
	}
	if c.ConfirmationTimeout <= 0 {
		return errors.New("confirmation timeout must be positive")
	}
	if c.BlockhashRetryDelay <= 0 {
		return errors.New("blockhash retry delay must be positive")
	}

	return nil
}

// Sol converts lamports to whole SOL for display.
func Sol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
