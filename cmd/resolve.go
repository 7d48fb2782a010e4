package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planavail/core/availability"
	"github.com/kilianp07/planavail/core/model"
	"github.com/kilianp07/planavail/infra/logger"
	"github.com/kilianp07/planavail/pkg/export"
)

var (
	resolveInput  string
	resolveFormat string
	resolveNow    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Evaluate a request file and print the open slots",
	RunE:  resolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveInput, "input", "i", "", "request file (JSON or YAML)")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "json", "output format: json or csv")
	resolveCmd.Flags().StringVar(&resolveNow, "now", "", "evaluate as of this RFC3339 instant")
	_ = resolveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(resolveCmd)
}

func resolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setup(cfg); err != nil {
		return err
	}
	var clock availability.Clock = availability.SystemClock{}
	if resolveNow != "" {
		t, err := time.Parse(time.RFC3339, resolveNow)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		clock = availability.FixedClock(t)
	}
	req, err := availability.LoadRequest(resolveInput)
	if err != nil {
		return err
	}
	ev, err := availability.NewEvaluator(cfg.Calendar, clock, nil, logger.New("resolve"))
	if err != nil {
		return err
	}
	slots, err := ev.Evaluate(req)
	if err != nil {
		return err
	}
	return writeSlots(cmd.OutOrStdout(), resolveFormat, slots)
}

func writeSlots(w io.Writer, format string, slots []model.Slot) error {
	switch format {
	case "json":
		return export.WriteJSON(w, slots)
	case "csv":
		return export.WriteCSV(w, slots)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
