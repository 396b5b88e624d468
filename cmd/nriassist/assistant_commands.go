package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nriassist/internal/assistant"
	"nriassist/internal/chatui"
	"nriassist/internal/daemon"
	"nriassist/internal/ipc"
	"nriassist/internal/logging"
	"nriassist/internal/script"
	"nriassist/internal/textutil"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var scorer string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search the assistant guide",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("search query is empty")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Search(ipc.SearchRequest{Query: query, Threshold: threshold, Scorer: scorer})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Results) == 0 {
					fmt.Fprintf(out, "No matches for %q\n", resp.Query)
					return nil
				}
				fmt.Fprintf(out, "Found %d matches for %q (scorer %s, threshold %.2f)\n", len(resp.Results), resp.Query, resp.Scorer, resp.Threshold)
				rows := make([][]string, 0, len(resp.Results))
				for i, result := range resp.Results {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						fmt.Sprintf("%.3f", result.Score),
						result.Key,
						result.Label,
					})
				}
				fmt.Fprint(out, renderTable([]string{"#", "Score", "Key", "Entry"}, rows, []columnAlignment{alignRight, alignRight, alignLeft, alignLeft}))
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Highest accepted score, 0 is a perfect match (default search.threshold)")
	cmd.Flags().StringVar(&scorer, "scorer", "", "Scorer override (edit, subsequence, token)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newScriptCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "script [key]",
		Short: "List guide nodes or print one node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := daemon.LoadScript(ctx.configValue())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				nodes := sc.List()
				if asJSON {
					return writeJSON(cmd, nodes)
				}
				rows := make([][]string, 0, len(nodes))
				for _, node := range nodes {
					rows = append(rows, []string{node.Key, textutil.DisplayLabel(node.Text, 60), fmt.Sprintf("%d", len(node.Options))})
				}
				fmt.Fprint(out, renderTable([]string{"Key", "Text", "Options"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
				fmt.Fprintln(out)
				return nil
			}

			node, ok := sc.Lookup(strings.TrimSpace(args[0]))
			if !ok {
				return fmt.Errorf("guide node %q not found", args[0])
			}
			if asJSON {
				return writeJSON(cmd, node)
			}
			printScriptNode(cmd, node)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newChatCommand(ctx *commandContext) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath := filepath.Join(cfg.Paths.LogDir, "nriassist-chat.log")
			level := ctx.logLevel()
			if level == "" {
				level = cfg.Logging.Level
			}
			logger, err := logging.New(logging.Options{
				Level:            level,
				Format:           "json",
				OutputPaths:      []string{logPath},
				ErrorOutputPaths: []string{logPath},
				ComponentLevels:  cfg.Logging.ComponentLevels,
			})
			if err != nil {
				return fmt.Errorf("init chat logger: %w", err)
			}

			sc, err := daemon.LoadScript(cfg)
			if err != nil {
				return err
			}
			deps, err := daemon.NewAssistantDeps(cfg, sc, logger)
			if err != nil {
				return err
			}
			session := assistant.NewSession(deps, assistant.WithID(uuid.NewString()))
			if strings.TrimSpace(mode) != "" {
				parsed, err := assistant.ParseMode(mode)
				if err != nil {
					return err
				}
				if err := session.SetMode(parsed); err != nil {
					return err
				}
			}
			logger.Info("chat session opened", logging.String(logging.FieldSessionID, session.ID()))
			return chatui.Run(cmd.Context(), session)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Initial mode (chat or search)")
	return cmd
}

func printScriptNode(cmd *cobra.Command, node script.Node) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[%s]\n", node.Key)
	fmt.Fprintln(out, node.Text)
	if len(node.Options) == 0 {
		return
	}
	fmt.Fprintln(out)
	for i, option := range node.Options {
		fmt.Fprintf(out, "  %d. %s\n", i+1, option)
	}
}
