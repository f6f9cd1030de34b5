package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderStatementMarkdown renders a statement as Markdown.
func RenderStatementMarkdown(st *Statement) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Creator Fee Statement: %s\n\n", st.Beneficiary))
	sb.WriteString(fmt.Sprintf("Surface: %s | Generated: %s\n\n", st.Surface, st.GeneratedAt.Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Earned (SOL) | %s |\n", st.Summary.TotalEarned.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("| Paid (SOL) | %s |\n", st.Summary.TotalPaid.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("| Pending (SOL) | %s |\n", st.Summary.PendingSol.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("| Claimable (SOL) | %s |\n", st.Summary.Claimable.StringFixed(9)))
	if st.Summary.CanClaim {
		sb.WriteString("| Next claim | now |\n")
	} else {
		sb.WriteString(fmt.Sprintf("| Next claim | %s |\n", formatTime(st.Summary.NextClaimAt)))
	}
	sb.WriteString("\n")

	if st.Summary.PendingCount > 0 {
		sb.WriteString(fmt.Sprintf("**%d pending distribution(s) await reconciliation.**\n\n", st.Summary.PendingCount))
	}

	// Tokens
	sb.WriteString("## Tokens\n\n")
	if len(st.Tokens) > 0 {
		sb.WriteString("| Token | Collected | Earned | Paid | Unpaid |\n")
		sb.WriteString("|-------|-----------|--------|------|--------|\n")
		for _, t := range st.Tokens {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				t.TokenID, t.Collected.StringFixed(9), t.Earned.StringFixed(9),
				t.Paid.StringFixed(9), t.Unpaid.StringFixed(9)))
		}
	} else {
		sb.WriteString("No tokens found.\n")
	}
	sb.WriteString("\n")

	// Distributions
	sb.WriteString("## Distributions\n\n")
	if len(st.Distributions) > 0 {
		sb.WriteString("| Time | Token | Type | Status | Amount | Signature |\n")
		sb.WriteString("|------|-------|------|--------|--------|-----------|\n")
		for _, d := range st.Distributions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				formatTime(d.CreatedAt), d.TokenID, d.Type, d.Status,
				d.AmountSol.StringFixed(9), d.Signature))
		}
	} else {
		sb.WriteString("No distributions yet.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
