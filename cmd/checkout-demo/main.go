package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yashrajoria/checkout-service/logger"
	"github.com/yashrajoria/checkout-service/models"
	"github.com/yashrajoria/checkout-service/processors"
	"github.com/yashrajoria/checkout-service/services"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "checkout-demo",
		Short:        "Walk through the checkout service from the command line",
		Version:      Version,
		SilenceUsage: true,
		RunE:         runDemo,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr")
	rootCmd.PersistentFlags().String("txid-strategy", "random", "Transaction id strategy (random, sequence)")

	rootCmd.AddCommand(demoCmd())
	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(modesCmd())
	rootCmd.AddCommand(validateCmd())

	return rootCmd
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run every demonstration section",
		RunE:  runDemo,
	}
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay [mode] [amount]",
		Short: "Process a single payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newServices(cmd)
			if err != nil {
				return err
			}
			mode, err := models.ParsePaymentMode(args[0])
			if err != nil {
				return err
			}
			result, err := svc.Checkout(cmd.Context(), mode, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result)
			if result.TransactionID != "" {
				fmt.Fprintf(out, "Transaction ID: %s\n", result.TransactionID)
			}
			return nil
		},
	}
}

func modesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List supported payment modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newServices(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported payment modes:")
			for _, m := range svc.SupportedModes() {
				fmt.Fprintf(out, "  %-12s %s\n", m, m.DisplayName())
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [amount]",
		Short: "Check whether an amount can be charged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := models.ValidateAmount(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Valid amount: %s\n", amount.Format())
			return nil
		},
	}
}

// newServices builds a checkout service with the default processors and a
// legacy wrapper that prints to the command's output.
func newServices(cmd *cobra.Command) (services.CheckoutService, *services.LegacyCheckout, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	strategy, _ := cmd.Flags().GetString("txid-strategy")

	log := zap.NewNop()
	if verbose {
		l, err := logger.New("development", nil)
		if err != nil {
			return nil, nil, err
		}
		log = l
	}

	ids, err := processors.NewIDGenerator(strategy)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewCheckoutService(processors.DefaultProcessors(ids, nil, log), services.Dependencies{}, log)
	return svc, services.NewLegacyCheckout(svc, cmd.OutOrStdout(), log), nil
}
