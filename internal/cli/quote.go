package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/market"
)

var (
	quoteAmount       string
	quoteVirtualSol   string
	quoteVirtualToken string
	quoteRealSol      string
	quoteRealToken    string
	quoteSlippageBps  int64
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a trade on a bonding curve",
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.AddCommand(newQuoteSideCmd(domain.SideBuy, "Quote tokens received for --amount SOL"))
	quoteCmd.AddCommand(newQuoteSideCmd(domain.SideSell, "Quote SOL received for --amount tokens"))

	flags := quoteCmd.PersistentFlags()
	flags.StringVar(&quoteAmount, "amount", "", "SOL in (buy) or tokens in (sell)")
	flags.StringVar(&quoteVirtualSol, "virtual-sol", "30", "virtual SOL reserves")
	flags.StringVar(&quoteVirtualToken, "virtual-token", "1073000000", "virtual token reserves")
	flags.StringVar(&quoteRealSol, "real-sol", "0", "real SOL reserves")
	flags.StringVar(&quoteRealToken, "real-token", "0", "real token reserves")
	flags.Int64Var(&quoteSlippageBps, "slippage-bps", 100, "slippage tolerance in basis points")
	quoteCmd.MarkPersistentFlagRequired("amount")
}

func newQuoteSideCmd(side, short string) *cobra.Command {
	return &cobra.Command{
		Use:   side,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()
			params, err := cfg.Market()
			if err != nil {
				return err
			}

			r, amount, err := parseQuoteFlags()
			if err != nil {
				return err
			}
			svc := market.NewService(market.Config{
				GraduationThresholdSol: params.GraduationThresholdSol,
				TotalSupply:            params.TotalSupply,
			}, nil, logger)
			res, err := svc.Quote(side, amount, r, quoteSlippageBps)
			if err != nil {
				return err
			}
			printQuote(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func parseQuoteFlags() (domain.ReserveSnapshot, decimal.Decimal, error) {
	var r domain.ReserveSnapshot
	values := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"virtual-sol", quoteVirtualSol, &r.VirtualSolReserves},
		{"virtual-token", quoteVirtualToken, &r.VirtualTokenReserves},
		{"real-sol", quoteRealSol, &r.RealSolReserves},
		{"real-token", quoteRealToken, &r.RealTokenReserves},
	}
	for _, v := range values {
		d, err := decimal.NewFromString(v.raw)
		if err != nil {
			return r, decimal.Zero, fmt.Errorf("--%s: %w", v.name, err)
		}
		*v.dst = d
	}
	amount, err := decimal.NewFromString(quoteAmount)
	if err != nil {
		return r, decimal.Zero, fmt.Errorf("--amount: %w", err)
	}
	return r, amount, nil
}

func printQuote(w io.Writer, res *market.QuoteResult) {
	q := res.Quote
	in, out := "SOL", "tokens"
	if q.Side == domain.SideSell {
		in, out = "tokens", "SOL"
	}
	fmt.Fprintf(w, "Side:            %s\n", q.Side)
	fmt.Fprintf(w, "Input:           %s %s\n", q.InputAmount, in)
	fmt.Fprintf(w, "Output:          %s %s\n", q.OutputAmount, out)
	fmt.Fprintf(w, "Minimum output:  %s %s\n", res.MinimumOutput, out)
	fmt.Fprintf(w, "Spot price:      %s -> %s SOL/token\n", q.SpotPriceBefore, q.NewSpotPrice)
	fmt.Fprintf(w, "Execution price: %s SOL/token\n", q.ExecutionPrice)
	fmt.Fprintf(w, "Price impact:    %s%%\n", q.PriceImpactPct)
	fmt.Fprintf(w, "Progress:        %s%% -> %s%%\n", res.Before.ProgressPct, res.After.ProgressPct)
	if res.WouldGraduate {
		fmt.Fprintln(w, "This trade graduates the market.")
	}
}
