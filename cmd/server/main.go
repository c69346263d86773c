package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/chart"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/config"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/handler"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/youtube"
)

var rootCmd = &cobra.Command{
	Use:   "ytexplorer",
	Short: "YouTube Video Explorer",
	Long:  "Search YouTube videos and explore their metadata: a web form (serve) or a one-shot terminal report (query).",
	// Running without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newQueryCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newExplorer wires the fetch/shape/present pipeline against the Data API.
func newExplorer(cfg *config.Config, logger zerolog.Logger) *service.Explorer {
	client := youtube.New(cfg.YouTubeBaseURL, cfg.YouTubeTimeout)
	return service.NewExplorer(
		service.NewFetchService(handler.InstrumentSource(client)),
		chart.Renderer{},
		handler.PipelineObserver{},
		logger,
	)
}
