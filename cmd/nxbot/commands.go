package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msmohankumar/nx-codebot/internal/config"
)

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate <request>",
	Short: "Generate an NXOpen journal script from a CAD request",
	Long: `Generate an NXOpen journal script from a natural-language CAD request.

Examples:
  nxbot generate "create a block 100 100 50"
  nxbot generate "make a cylinder" --params 50,10
  nxbot generate "fillet the edges" --output fillet.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := strings.Join(args, " ")
		paramsStr, _ := cmd.Flags().GetString("params")
		output, _ := cmd.Flags().GetString("output")

		var params []string
		if paramsStr != "" {
			params = strings.Split(paramsStr, ",")
			for i := range params {
				params[i] = strings.TrimSpace(params[i])
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		body := map[string]any{"request": request}
		if params != nil {
			body["params"] = params
		}
		resp, err := client.post("/v1/generate", body)
		if err != nil {
			return err
		}

		var result struct {
			Code           string  `json:"code"`
			RawResponse    string  `json:"raw_response"`
			MatchedExample string  `json:"matched_example"`
			Strategy       string  `json:"strategy"`
			Confidence     float64 `json:"confidence"`
			Quality        struct {
				Score   int    `json:"score"`
				Message string `json:"message"`
			} `json:"quality"`
			Status     string `json:"status"`
			DurationMs int64  `json:"duration_ms"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Status != "ok" {
			printWarning("No code generated (%s)", result.Status)
			if result.RawResponse != "" {
				fmt.Println(result.RawResponse)
			}
			return nil
		}

		if result.MatchedExample != "" {
			printStep("Matched %s (%s, confidence %.2f)", result.MatchedExample, result.Strategy, result.Confidence)
		} else {
			printStep("No example matched, generated from scratch")
		}
		printStep("Quality %d/100: %s", result.Quality.Score, result.Quality.Message)

		if output != "" {
			if err := os.WriteFile(output, []byte(result.Code), 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			printSuccess("Script written to %s", output)
			return nil
		}

		fmt.Println(result.Code)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("params", "", "comma-separated parameter values")
	generateCmd.Flags().String("output", "", "write the script to a file instead of stdout")
}

// --- match ---

var matchCmd = &cobra.Command{
	Use:   "match <request>",
	Short: "Show which corpus example a request would match",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post("/v1/match", map[string]any{"request": request})
		if err != nil {
			return err
		}

		var result struct {
			Matched    bool    `json:"matched"`
			Example    string  `json:"example"`
			Strategy   string  `json:"strategy"`
			Confidence float64 `json:"confidence"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if !result.Matched {
			fmt.Println("No example matched.")
			return nil
		}
		fmt.Printf("%s  strategy=%s  confidence=%.2f\n",
			colorize(colorBold, result.Example), result.Strategy, result.Confidence)
		return nil
	},
}

// --- explain ---

var explainCmd = &cobra.Command{
	Use:   "explain [file]",
	Short: "Explain an NXOpen script (from a file or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var code []byte
		var err error
		if len(args) == 1 {
			code, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
		} else {
			code, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}
		if len(code) == 0 {
			return fmt.Errorf("no code to explain")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post("/v1/explain", map[string]any{"code": string(code)})
		if err != nil {
			return err
		}

		var result struct {
			Fingerprint string `json:"fingerprint"`
			Explanation string `json:"explanation"`
			Cached      bool   `json:"cached"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Cached {
			printStep("Explanation served from cache")
		}
		fmt.Println(result.Explanation)
		return nil
	},
}

// --- corpus ---

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "List the loaded example scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/v1/corpus")
		if err != nil {
			return err
		}

		var result struct {
			Documents []string `json:"documents"`
			Count     int      `json:"count"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Count == 0 {
			fmt.Println("Corpus is empty.")
			return nil
		}
		for _, name := range result.Documents {
			fmt.Println(name)
		}
		printStep("%d example(s) loaded", result.Count)
		return nil
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(fmt.Sprintf("/v1/history?limit=%d", limit))
		if err != nil {
			return err
		}

		var entries []struct {
			ID             string `json:"id"`
			CreatedAt      string `json:"created_at"`
			Request        string `json:"request"`
			MatchedExample string `json:"matched_example"`
			Score          int    `json:"score"`
			Status         string `json:"status"`
		}
		if err := decodeJSON(resp, &entries); err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No generations recorded.")
			return nil
		}

		for _, e := range entries {
			request := e.Request
			if len(request) > 60 {
				request = request[:60] + "..."
			}
			fmt.Printf("%s  %s  %-12s  %3d  %s\n",
				colorize(colorCyan, e.ID[:8]),
				e.CreatedAt,
				e.Status,
				e.Score,
				request,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single generation with prompt and response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/v1/history/" + args[0])
		if err != nil {
			return err
		}

		var generation any
		if err := decodeJSON(resp, &generation); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(generation)
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of generations to list")
	historyCmd.AddCommand(historyShowCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
