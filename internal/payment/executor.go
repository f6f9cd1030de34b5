// Package payment sends SOL payouts from the treasury wallet.
package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-launchpad/internal/solana"
)

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

// DefaultConfirmTimeout bounds how long Transfer waits for confirmation.
const DefaultConfirmTimeout = 60 * time.Second

// SolanaExecutor transfers SOL with system program instructions signed by the treasury key.
type SolanaExecutor struct {
	rpc            solana.RPCClient
	confirmer      Confirmer
	signer         solanago.PrivateKey
	confirmTimeout time.Duration
	logger         *zap.Logger
}

// ExecutorOption configures a SolanaExecutor.
type ExecutorOption func(*SolanaExecutor)

// WithConfirmer replaces the default polling confirmer.
func WithConfirmer(c Confirmer) ExecutorOption {
	return func(e *SolanaExecutor) {
		e.confirmer = c
	}
}

// WithConfirmTimeout sets the confirmation deadline.
func WithConfirmTimeout(d time.Duration) ExecutorOption {
	return func(e *SolanaExecutor) {
		if d > 0 {
			e.confirmTimeout = d
		}
	}
}

// WithLogger sets the executor logger.
func WithLogger(logger *zap.Logger) ExecutorOption {
	return func(e *SolanaExecutor) {
		e.logger = logger
	}
}

// NewSolanaExecutor creates an executor paying from signer.
func NewSolanaExecutor(rpc solana.RPCClient, signer solanago.PrivateKey, opts ...ExecutorOption) *SolanaExecutor {
	e := &SolanaExecutor{
		rpc:            rpc,
		signer:         signer,
		confirmTimeout: DefaultConfirmTimeout,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.confirmer == nil {
		e.confirmer = NewPollingConfirmer(rpc, solana.CommitmentConfirmed, 0)
	}
	e.logger = e.logger.Named("payment")
	return e
}

// LoadSigner reads a treasury key given either as a base58 secret or a
// path to a solana-keygen JSON file.
func LoadSigner(value string) (solanago.PrivateKey, error) {
	if value == "" {
		return nil, errors.New("treasury key is empty")
	}
	if _, err := os.Stat(value); err == nil {
		key, err := solanago.PrivateKeyFromSolanaKeygenFile(value)
		if err != nil {
			return nil, fmt.Errorf("read keygen file: %w", err)
		}
		return key, nil
	}
	key, err := solanago.PrivateKeyFromBase58(value)
	if err != nil {
		return nil, fmt.Errorf("decode treasury key: %w", err)
	}
	return key, nil
}

// FundingAddress returns the treasury wallet address.
func (e *SolanaExecutor) FundingAddress() string {
	return e.signer.PublicKey().String()
}

// GetBalance returns the SOL balance of address.
func (e *SolanaExecutor) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	lamports, err := e.rpc.GetBalance(ctx, address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return LamportsToSol(lamports), nil
}

// Transfer sends amount SOL to the given address and waits for confirmation.
//
// A node rejection returns a plain error: nothing was submitted. Any outcome where
// the transaction may have been accepted returns *UnconfirmedError with its signature.
// An on-chain failure returns *TransactionFailedError.
func (e *SolanaExecutor) Transfer(ctx context.Context, to string, amount decimal.Decimal) (string, error) {
	lamports, err := SolToLamports(amount)
	if err != nil {
		return "", err
	}
	recipient, err := solanago.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	tx, err := e.buildTransfer(ctx, recipient, lamports)
	if err != nil {
		return "", err
	}
	signature := tx.Signatures[0].String()

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}

	sent, err := e.rpc.SendTransaction(ctx, base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		if solana.IsRPCError(err) {
			return "", fmt.Errorf("send transaction: %w", err)
		}
		e.logger.Warn("send outcome unknown",
			zap.String("signature", signature),
			zap.Error(err),
		)
		return signature, &UnconfirmedError{Signature: signature, Err: err}
	}
	if sent != "" {
		signature = sent
	}

	confirmCtx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	defer cancel()

	if err := e.confirmer.Confirm(confirmCtx, signature); err != nil {
		var failed *TransactionFailedError
		if errors.As(err, &failed) {
			return signature, err
		}
		return signature, &UnconfirmedError{Signature: signature, Err: err}
	}

	e.logger.Info("transfer confirmed",
		zap.String("signature", signature),
		zap.String("to", to),
		zap.Uint64("lamports", lamports),
	)
	return signature, nil
}

func (e *SolanaExecutor) buildTransfer(ctx context.Context, to solanago.PublicKey, lamports uint64) (*solanago.Transaction, error) {
	bh, err := e.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	blockhash, err := solanago.HashFromBase58(bh.Hash)
	if err != nil {
		return nil, fmt.Errorf("decode blockhash: %w", err)
	}

	from := e.signer.PublicKey()
	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		blockhash,
		solanago.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solanago.PublicKey) *solanago.PrivateKey {
		if key.Equals(from) {
			signer := e.signer
			return &signer
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// SolToLamports converts SOL to lamports, truncating sub-lamport digits.
func SolToLamports(amount decimal.Decimal) (uint64, error) {
	lamports := amount.Shift(9).Truncate(0)
	if !lamports.IsPositive() {
		return 0, fmt.Errorf("transfer amount must be at least one lamport, got %s SOL", amount)
	}
	return lamports.BigInt().Uint64(), nil
}

// LamportsToSol converts lamports to SOL.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9)
}
