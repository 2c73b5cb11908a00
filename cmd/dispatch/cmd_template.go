package main

import (
	"dispatch-route-service/internal/adapters/sheet"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template [output.xlsx]",
	Short: "Write an input workbook with sample rows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "input_template.xlsx"
		if len(args) == 1 {
			path = args[0]
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create template: %w", err)
		}
		if err := sheet.WriteTemplate(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close template: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
