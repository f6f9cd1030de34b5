package settlement

import (
	"fmt"
	"regexp"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// BeneficiaryKind distinguishes wallet and social-handle identities.
type BeneficiaryKind int

const (
	KindWallet BeneficiaryKind = iota + 1
	KindHandle
)

func (k BeneficiaryKind) String() string {
	switch k {
	case KindWallet:
		return "wallet"
	case KindHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Beneficiary is a normalized claimant identity.
type Beneficiary struct {
	Key  string
	Kind BeneficiaryKind
}

var handlePattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{1,15}$`)

// ParseBeneficiary normalizes a wallet address or social handle.
// Handles are lower-cased and lose their leading '@'.
func ParseBeneficiary(raw string) (Beneficiary, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Beneficiary{}, fmt.Errorf("%w: empty", ErrInvalidBeneficiary)
	}
	if IsWallet(s) {
		return Beneficiary{Key: s, Kind: KindWallet}, nil
	}
	if handlePattern.MatchString(s) {
		return Beneficiary{Key: strings.ToLower(strings.TrimPrefix(s, "@")), Kind: KindHandle}, nil
	}
	return Beneficiary{}, fmt.Errorf("%w: %q is neither a wallet nor a handle", ErrInvalidBeneficiary, raw)
}

// IsWallet reports whether s is a base58 ed25519 public key.
// Program-derived addresses are off the curve and cannot sign, so they are rejected.
func IsWallet(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return isOnCurve(raw)
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
