package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderStatementCSV renders a statement's distributions as CSV, followed by a totals block.
func RenderStatementCSV(st *Statement) string {
	var sb strings.Builder

	// Header
	sb.WriteString("created_at,surface,beneficiary,token_id,distribution_type,status,amount_sol,signature\n")

	// Rows
	for _, d := range st.Distributions {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s\n",
			d.CreatedAt.UTC().Format(time.RFC3339),
			st.Surface,
			st.Beneficiary,
			d.TokenID,
			d.Type,
			d.Status,
			d.AmountSol.StringFixed(9),
			d.Signature,
		))
	}

	// Totals
	sb.WriteString("\n")
	sb.WriteString("metric,value\n")
	sb.WriteString(fmt.Sprintf("total_earned_sol,%s\n", st.Summary.TotalEarned.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("total_paid_sol,%s\n", st.Summary.TotalPaid.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("pending_sol,%s\n", st.Summary.PendingSol.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("claimable_sol,%s\n", st.Summary.Claimable.StringFixed(9)))
	sb.WriteString(fmt.Sprintf("completed_count,%d\n", st.Summary.CompletedCount))
	sb.WriteString(fmt.Sprintf("pending_count,%d\n", st.Summary.PendingCount))
	sb.WriteString(fmt.Sprintf("failed_count,%d\n", st.Summary.FailedCount))
	sb.WriteString(fmt.Sprintf("can_claim,%t\n", st.Summary.CanClaim))
	sb.WriteString(fmt.Sprintf("next_claim_at,%s\n", formatTime(st.Summary.NextClaimAt)))

	return sb.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
