package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeDistributionID computes a deterministic distribution id using SHA256.
// Formula: SHA256(signature|token_id|beneficiary_key|distribution_type)
// Returns hex-encoded hash (64 characters).
//
// One payment produces one row per token, so replaying the same recording yields
// the same ids and is rejected by the store instead of being counted twice.
func ComputeDistributionID(
	signature string,
	tokenID string,
	beneficiaryKey string,
	distributionType string,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		signature,
		tokenID,
		beneficiaryKey,
		distributionType,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
