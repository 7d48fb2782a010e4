package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planavail/core/availability"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Decode and validate a request file",
	RunE:  validate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "request file (JSON or YAML)")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}

func validate(cmd *cobra.Command, args []string) error {
	req, err := availability.LoadRequest(validateInput)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d plans, %d events, %d block plans for %s\n",
		len(req.Plans), len(req.Events), len(req.BlockPlans), req.CategoryType)
	return err
}
