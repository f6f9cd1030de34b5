package domain

import "time"

// Token links a launched token to the identities entitled to its creator fees.
// Owned by the launch backend; the ledger only reads it to resolve claim scope.
type Token struct {
	ID            string // token mint address
	CreatorWallet string // wallet that launched the token (may be empty)
	CreatorHandle string // normalized social handle credited with the launch (may be empty)
	CreatedAt     time.Time
}
