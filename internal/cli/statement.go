package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solana-launchpad/internal/reporting"
)

var (
	statementFormat string
	statementOutput string
)

var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Render a beneficiary's creator fee statement",
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
		st, err := reporting.NewGenerator(l, a.distributions[claimSurface]).Generate(ctx, claimBeneficiary)
		if err != nil {
			return err
		}

		var out string
		switch statementFormat {
		case "csv":
			out = reporting.RenderStatementCSV(st)
		case "markdown", "md":
			out = reporting.RenderStatementMarkdown(st)
		default:
			return fmt.Errorf("unknown format %q (csv, markdown)", statementFormat)
		}

		if statementOutput == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		if err := os.WriteFile(statementOutput, []byte(out), 0644); err != nil {
			return fmt.Errorf("write statement: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Statement written to %s\n", statementOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statementCmd)
	statementCmd.Flags().StringVar(&claimSurface, "surface", "agent", "product surface")
	statementCmd.Flags().StringVar(&claimBeneficiary, "beneficiary", "", "creator wallet or social handle")
	statementCmd.Flags().StringVarP(&statementFormat, "format", "f", "csv", "output format: csv or markdown")
	statementCmd.Flags().StringVarP(&statementOutput, "output", "o", "", "write to file instead of stdout")
	statementCmd.MarkFlagRequired("beneficiary")
}
