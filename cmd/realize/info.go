package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoSymbol string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print ticker information",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		cfg, err := loadConfig(log)
		if err != nil {
			return err
		}
		a, err := buildApp(cfg, log)
		if err != nil {
			return err
		}

		p, err := a.Info(cmd.Context(), infoSymbol)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Company Name: %s\n", p.Name)
		fmt.Fprintf(out, "Sector:       %s\n", p.Sector)
		fmt.Fprintf(out, "Price:        %s\n", p.Price)
		fmt.Fprintf(out, "Market Cap:   %s\n", p.MarketCap)
		return nil
	},
}

func init() {
	infoCmd.Flags().StringVarP(&infoSymbol, "symbol", "s", "", "ticker symbol (required)")
	infoCmd.MarkFlagRequired("symbol")
	rootCmd.AddCommand(infoCmd)
}
