// Command analyzerctl is the operator CLI for traffic-analyzer. It works on
// local files and never touches the service's state store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"traffic-analyzer/internal/adapter/gemini"
	"traffic-analyzer/internal/config"
	"traffic-analyzer/internal/core/extractor"
	"traffic-analyzer/internal/core/importer"
	"traffic-analyzer/internal/core/kpi"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "analyzerctl",
		Short:        "Operator tools for traffic-analyzer",
		SilenceUsage: true,
	}
	root.AddCommand(newTemplateCmd(), newKPICmd(), newParseCmd())
	return root
}

func newTemplateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the campaign import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" || out == "-" {
				return importer.WriteTemplate(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err = importer.WriteTemplate(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", importer.TemplateFilename, `output file, "-" for stdout`)
	return cmd
}

type kpiReport struct {
	Campaigns    int                 `json:"campaigns"`
	Totals       kpi.Summary         `json:"totals"`
	Distribution []kpi.PlatformSpend `json:"distribution"`
}

func newKPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kpi <sheet.csv>",
		Short: "Compute campaign KPIs for an import sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			campaigns, err := importer.Parse(f, time.Now())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), kpiReport{
				Campaigns:    len(campaigns),
				Totals:       kpi.Summarize(campaigns, nil),
				Distribution: kpi.SpendByPlatform(campaigns),
			})
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <message>",
		Short: "Extract a metric from a free-text message using Gemini",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Gemini.APIKey == "" {
				return errors.New("GEMINI_API_KEY is not set")
			}
			svc, err := gemini.NewCompletionService(cmd.Context(), cfg.Gemini.APIKey, cfg.Gemini.Model)
			if err != nil {
				return err
			}
			x := extractor.New(svc, extractor.WithTimeout(cfg.Extractor.Timeout))
			m, err := x.Extract(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
