package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"solana-launchpad/internal/settlement"
)

var (
	claimSurface     string
	claimBeneficiary string
	claimPayout      string
)

var claimableCmd = &cobra.Command{
	Use:   "claimable",
	Short: "Show a beneficiary's claimable creator fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := buildApp(ctx, cfg, logger, appOptions{readOnly: true})
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.ledger(claimSurface)
		if err != nil {
			return err
		}
		who, err := settlement.ParseBeneficiary(claimBeneficiary)
		if err != nil {
			return err
		}
		scope, err := l.ResolveScope(ctx, who.Key)
		if err != nil {
			return err
		}
		bal, err := l.ComputeClaimable(ctx, who.Key, scope)
		if err != nil {
			return err
		}
		cd, err := l.CheckCooldown(ctx, who.Key)
		if err != nil {
			return err
		}
		printBalance(cmd.OutOrStdout(), claimSurface, who, bal, cd)
		return nil
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Pay out a beneficiary's claimable creator fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(cmd.Context(), cfg, logger, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.ledger(claimSurface)
		if err != nil {
			return err
		}
		res, err := l.Claim(cmd.Context(), settlement.ClaimRequest{
			Beneficiary:   claimBeneficiary,
			PayoutAddress: claimPayout,
		})
		if res == nil {
			return err
		}
		printClaim(cmd.OutOrStdout(), res)
		if err != nil {
			return err
		}
		if res.Outcome != settlement.OutcomeCompleted {
			return errors.New(string(res.Outcome))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{claimableCmd, claimCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&claimSurface, "surface", "agent", "product surface")
		c.Flags().StringVar(&claimBeneficiary, "beneficiary", "", "creator wallet or social handle")
		c.MarkFlagRequired("beneficiary")
	}
	claimCmd.Flags().StringVar(&claimPayout, "payout", "", "wallet receiving the payout (required for handles)")
}

func printBalance(w io.Writer, surface string, who settlement.Beneficiary, bal *settlement.Balance, cd settlement.CooldownStatus) {
	fmt.Fprintf(w, "Surface:     %s\n", surface)
	fmt.Fprintf(w, "Beneficiary: %s (%s)\n", who.Key, who.Kind)
	fmt.Fprintf(w, "Tokens:      %d\n", len(bal.TokenIDs))
	fmt.Fprintf(w, "Earned:      %s SOL\n", bal.TotalEarned)
	fmt.Fprintf(w, "Paid:        %s SOL\n", bal.TotalPaid)
	fmt.Fprintf(w, "Claimable:   %s SOL\n", bal.Claimable)
	if bal.Capped() {
		fmt.Fprintf(w, "             (%s SOL before the per-claim cap)\n", bal.Uncapped)
	}
	if cd.CanClaim {
		fmt.Fprintln(w, "Cooldown:    ready")
	} else {
		fmt.Fprintf(w, "Cooldown:    %ds remaining (next claim at %s)\n", cd.RemainingSeconds, cd.NextClaimAt.UTC().Format("2006-01-02 15:04:05"))
	}
}

func printClaim(w io.Writer, res *settlement.ClaimResult) {
	fmt.Fprintf(w, "Outcome:   %s\n", res.Outcome)
	if res.Reason != "" {
		fmt.Fprintf(w, "Reason:    %s\n", res.Reason)
	}
	if !res.Amount.IsZero() {
		fmt.Fprintf(w, "Amount:    %s SOL -> %s\n", res.Amount, res.PayoutAddress)
	}
	if res.Signature != "" {
		fmt.Fprintf(w, "Signature: %s\n", res.Signature)
	}
}
