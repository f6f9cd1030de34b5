package payment

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launchpad/internal/solana"
	"solana-launchpad/internal/solana/stub"
)

func newTestExecutor(t *testing.T, rpc *stub.RPCClient, opts ...ExecutorOption) (*SolanaExecutor, solanago.PublicKey) {
	t.Helper()
	key, err := solanago.NewRandomPrivateKey()
	require.NoError(t, err)
	recipient, err := solanago.NewRandomPrivateKey()
	require.NoError(t, err)

	opts = append([]ExecutorOption{
		WithConfirmer(NewPollingConfirmer(rpc, solana.CommitmentConfirmed, 5*time.Millisecond)),
	}, opts...)
	return NewSolanaExecutor(rpc, key, opts...), recipient.PublicKey()
}

func TestSolanaExecutor_Transfer(t *testing.T) {
	rpc := stub.NewRPCClient()
	exec, to := newTestExecutor(t, rpc)

	sig, err := exec.Transfer(context.Background(), to.String(), decimal.RequireFromString("0.3"))
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
	require.Equal(t, 1, rpc.SentCount())

	tx, err := solanago.TransactionFromBase64(rpc.Sent[0])
	require.NoError(t, err)
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())
	assert.True(t, tx.Message.AccountKeys[0].Equals(exec.signer.PublicKey()), "payer must be the treasury")

	found := false
	for _, k := range tx.Message.AccountKeys {
		if k.Equals(to) {
			found = true
		}
	}
	assert.True(t, found, "recipient missing from account keys")
}

func TestSolanaExecutor_Transfer_InvalidAmount(t *testing.T) {
	rpc := stub.NewRPCClient()
	exec, to := newTestExecutor(t, rpc)

	_, err := exec.Transfer(context.Background(), to.String(), decimal.RequireFromString("0.0000000001"))
	require.Error(t, err)
	assert.Equal(t, 0, rpc.SentCount())
}

func TestSolanaExecutor_Transfer_InvalidRecipient(t *testing.T) {
	rpc := stub.NewRPCClient()
	exec, _ := newTestExecutor(t, rpc)

	_, err := exec.Transfer(context.Background(), "not-a-key", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Equal(t, 0, rpc.SentCount())
}

func TestSolanaExecutor_Transfer_NodeRejection(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.SendErr = &solana.RPCError{Code: -32002, Message: "Transaction simulation failed"}
	exec, to := newTestExecutor(t, rpc)

	sig, err := exec.Transfer(context.Background(), to.String(), decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Empty(t, sig)
	_, unconfirmed := IsUnconfirmed(err)
	assert.False(t, unconfirmed, "node rejection must not be reported as unconfirmed")
}

func TestSolanaExecutor_Transfer_TransportFailureIsUnconfirmed(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.SendErr = errors.New("connection reset by peer")
	exec, to := newTestExecutor(t, rpc)

	sig, err := exec.Transfer(context.Background(), to.String(), decimal.NewFromInt(1))
	require.Error(t, err)
	got, unconfirmed := IsUnconfirmed(err)
	require.True(t, unconfirmed)
	assert.Equal(t, sig, got)
	assert.NotEmpty(t, got)
}

func TestSolanaExecutor_Transfer_ConfirmationTimeout(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.SendStatus = nil
	exec, to := newTestExecutor(t, rpc, WithConfirmTimeout(30*time.Millisecond))

	sig, err := exec.Transfer(context.Background(), to.String(), decimal.NewFromInt(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
	got, unconfirmed := IsUnconfirmed(err)
	require.True(t, unconfirmed)
	assert.Equal(t, sig, got)
}

func TestSolanaExecutor_Transfer_FailedOnChain(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.SendStatus = &solana.SignatureStatus{
		Slot:               7,
		ConfirmationStatus: solana.CommitmentConfirmed,
		Err:                map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
	}
	exec, to := newTestExecutor(t, rpc)

	_, err := exec.Transfer(context.Background(), to.String(), decimal.NewFromInt(1))
	var failed *TransactionFailedError
	require.ErrorAs(t, err, &failed)
	_, unconfirmed := IsUnconfirmed(err)
	assert.False(t, unconfirmed)
}

func TestSolanaExecutor_GetBalance(t *testing.T) {
	rpc := stub.NewRPCClient()
	exec, _ := newTestExecutor(t, rpc)
	rpc.Balances[exec.FundingAddress()] = 2_500_000_000

	bal, err := exec.GetBalance(context.Background(), exec.FundingAddress())
	require.NoError(t, err)
	assert.Equal(t, "2.5", bal.String())
}

func TestSolToLamports(t *testing.T) {
	tests := []struct {
		sol     string
		want    uint64
		wantErr bool
	}{
		{"0.3", 300_000_000, false},
		{"1", 1_000_000_000, false},
		{"0.0000000019", 1, false},
		{"0.0000000001", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.sol, func(t *testing.T) {
			got, err := SolToLamports(decimal.RequireFromString(tt.sol))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLamportsToSol(t *testing.T) {
	assert.Equal(t, "1.5", LamportsToSol(1_500_000_000).String())
	assert.Equal(t, "0.000000001", LamportsToSol(1).String())
}

func TestLoadSigner(t *testing.T) {
	key, err := solanago.NewRandomPrivateKey()
	require.NoError(t, err)

	t.Run("base58", func(t *testing.T) {
		got, err := LoadSigner(key.String())
		require.NoError(t, err)
		assert.True(t, got.PublicKey().Equals(key.PublicKey()))
	})

	t.Run("keygen file", func(t *testing.T) {
		ints := make([]int, len(key))
		for i, b := range key {
			ints[i] = int(b)
		}
		data, err := json.Marshal(ints)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "treasury.json")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		got, err := LoadSigner(path)
		require.NoError(t, err)
		assert.True(t, got.PublicKey().Equals(key.PublicKey()))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := LoadSigner("")
		assert.Error(t, err)
	})
}
