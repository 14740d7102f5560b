package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(sequencesCmd)
	rootCmd.AddCommand(courtCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(seqCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(metricsCmd)

	saveCmd.Flags().String("name", "", "Name for the saved position")
	saveCmd.Flags().String("id", "", "Existing position id to overwrite")
	loadCmd.Flags().Bool("skip", false, "Skip the transition animation")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List the saved positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/positions")
	},
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the saved scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/scenarios")
	},
}

var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "List the saved sequences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/sequences")
	},
}

var courtCmd = &cobra.Command{
	Use:   "court",
	Short: "Show the current on-court arrangement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/court")
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <position-id>",
	Short: "Load a position onto the court",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("skip")
		q := url.Values{"id": {args[0]}}
		if skip {
			q.Set("skip", "true")
		}
		return performPostRequest("/court/load?"+q.Encode(), nil)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the on-court arrangement as a position",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		id, _ := cmd.Flags().GetString("id")
		q := url.Values{}
		if name != "" {
			q.Set("name", name)
		}
		if id != "" {
			q.Set("id", id)
		}
		return performPostRequest("/court/save?"+q.Encode(), nil)
	},
}

var playCmd = &cobra.Command{
	Use:   "play <scenario-id>",
	Short: "Play a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/play/scenario?id="+url.QueryEscape(args[0]), nil)
	},
}

var seqCmd = &cobra.Command{
	Use:   "seq <start|next|prev> [sequence-id]",
	Short: "Drive sequence playback",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "start":
			if len(args) < 2 {
				return fmt.Errorf("seq start requires a sequence id")
			}
			return performPostRequest("/play/sequence/start?id="+url.QueryEscape(args[1]), nil)
		case "next":
			return performPostRequest("/play/sequence/next", nil)
		case "prev":
			return performPostRequest("/play/sequence/previous", nil)
		default:
			return fmt.Errorf("unknown subcommand %q", args[0])
		}
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <position-id>",
	Short: "Publish a position's lineup to Slack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/positions/"+url.PathEscape(args[0])+"/publish", nil)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a legacy XML or JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open export file: %w", err)
		}
		defer f.Close()
		return performPostRequest("/import/legacy", f)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body io.Reader) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
