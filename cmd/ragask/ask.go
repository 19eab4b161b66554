package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/ragask/internal/answer/factory"
	"github.com/at-ishikawa/ragask/internal/rag"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func newAskCommand() *cobra.Command {
	var output string

	command := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Long:  "Ask a single question and print the answer. Multiple arguments are joined with a space.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q: must be one of text, json, yaml", output)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			provider, closeProvider, err := factory.New(ctx, cfg.Provider)
			if err != nil {
				return fmt.Errorf("factory.New() > %w", err)
			}
			defer func() {
				if err := closeProvider(); err != nil {
					slog.Default().Warn("failed to close the answer provider", "error", err)
				}
			}()

			service, err := rag.NewService(provider, cfg.Server.RequestTimeout)
			if err != nil {
				return fmt.Errorf("rag.NewService() > %w", err)
			}

			resp, err := service.Ask(ctx, rag.AskRequest{Question: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return printAnswer(cmd.OutOrStdout(), output, resp)
		},
	}

	command.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")

	return command
}

func printAnswer(w io.Writer, output string, resp rag.AskResponse) error {
	switch output {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("json.Encode() > %w", err)
		}
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(map[string]string{"answer": resp.Answer}); err != nil {
			return fmt.Errorf("yaml.Encode() > %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("yaml.Close() > %w", err)
		}
	default:
		label := color.New(color.Bold, color.FgGreen)
		if _, err := label.Fprint(w, "Answer: "); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, resp.Answer); err != nil {
			return err
		}
	}
	return nil
}
