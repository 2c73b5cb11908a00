package main

import (
	"dispatch-route-service/internal/app"
	"dispatch-route-service/internal/config"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Check how an address resolves",
	Long: `Resolves one address through the same lookup chain as a dispatch run
(address search, then keyword search) and prints the display address and coordinate.

$ dispatch geocode "경기도 파주시 금릉역로 87"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		address := strings.Join(args, " ")
		loc, err := a.Geocoder.Resolve(cmd.Context(), address)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", loc.DisplayAddress, loc.Coordinates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
