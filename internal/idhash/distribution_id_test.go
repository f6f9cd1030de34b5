package idhash

import (
	"testing"
)

func TestComputeDistributionID(t *testing.T) {
	tests := []struct {
		name             string
		signature        string
		tokenID          string
		beneficiaryKey   string
		distributionType string
	}{
		{
			name:             "wallet claim",
			signature:        "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW",
			tokenID:          "So11111111111111111111111111111111111111112",
			beneficiaryKey:   "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T",
			distributionType: "creator_claim",
		},
		{
			name:             "handle claim",
			signature:        "3xfTz8Uy2Tx3bXW5z8Qd6z1oRpP7kV1TQF4Ttrb6rBZ7",
			tokenID:          "mintB",
			beneficiaryKey:   "alice",
			distributionType: "creator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDistributionID(tt.signature, tt.tokenID, tt.beneficiaryKey, tt.distributionType)

			if len(got) != 64 {
				t.Errorf("ComputeDistributionID() length = %d, want 64", len(got))
			}

			// Determinism
			again := ComputeDistributionID(tt.signature, tt.tokenID, tt.beneficiaryKey, tt.distributionType)
			if got != again {
				t.Errorf("ComputeDistributionID() not deterministic: %s != %s", got, again)
			}
		})
	}
}

func TestComputeDistributionID_TypeSensitive(t *testing.T) {
	got := ComputeDistributionID("sig", "tok", "alice", "creator_claim")
	other := ComputeDistributionID("sig", "tok", "alice", "creator")
	if got == other {
		t.Error("distribution type must be part of the id")
	}
}

func TestComputeDistributionID_PerToken(t *testing.T) {
	a := ComputeDistributionID("sig", "tokA", "alice", "creator_claim")
	b := ComputeDistributionID("sig", "tokB", "alice", "creator_claim")
	if a == b {
		t.Error("rows of one payment must have distinct ids per token")
	}
}
