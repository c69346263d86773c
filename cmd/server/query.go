package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/chart"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/config"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/middleware"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
)

func newQueryCmd() *cobra.Command {
	var (
		apiKey  string
		query   string
		maxN    int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one search and print the table and summaries",
		Long: "Run one search against the YouTube Data API and print the status line, the table, " +
			"mean views per publish hour and the engagement correlation matrix. " +
			"The API key is taken from --api-key or YOUTUBE_API_KEY.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("YOUTUBE_API_KEY")
			}
			key, errMsg := middleware.ValidateAPIKey(apiKey)
			if errMsg != "" {
				return fmt.Errorf("%s (use --api-key or YOUTUBE_API_KEY)", errMsg)
			}
			text, errMsg := middleware.ValidateQuery(query)
			if errMsg != "" {
				return fmt.Errorf("%s", errMsg)
			}
			n, errMsg := middleware.ValidateMaxResults(strconv.Itoa(maxN), service.DefaultResults)
			if errMsg != "" {
				return fmt.Errorf("%s", errMsg)
			}

			logger := zerolog.Nop()
			if verbose {
				logger = zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
			}

			explorer := newExplorer(config.Load(), logger)
			res := explorer.Run(cmd.Context(), service.Query{APIKey: key, Text: text, MaxResults: n})
			if !res.OK() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", res.Failure.Message)
				return res.Err()
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "YouTube Data API key (defaults to $YOUTUBE_API_KEY)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query, e.g. 'education'")
	cmd.Flags().IntVarP(&maxN, "max", "n", service.DefaultResults,
		fmt.Sprintf("max results (%d-%d)", service.MinResults, service.MaxResults))
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

// printResult writes the terminal rendition of a successful run.
func printResult(w io.Writer, res service.Result) error {
	p := message.NewPrinter(language.English)
	count := func(n model.NullCount) string {
		if !n.Valid {
			return "None"
		}
		return p.Sprintf("%d", n.Value)
	}

	fmt.Fprintln(w, res.Report.Status)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "video_id\ttitle\tchannel\tpublish_time\tviews\tlikes\tcomments\tpublish_hour\tpublish_day\t")
	for _, r := range res.Table.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t\n",
			r.VideoID,
			truncate(r.Title, 40),
			truncate(r.Channel, 24),
			r.PublishTime.Time.Format("2006-01-02 15:04"),
			count(r.Views),
			count(r.Likes),
			count(r.Comments),
			r.PublishHour.Value,
			r.PublishDay,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Average views by publish hour")
	for _, h := range res.Report.ViewsByHour {
		fmt.Fprintf(w, "  %5s  %s  (n=%d)\n", h.Label, p.Sprintf("%.0f", h.Mean), h.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Correlation of engagement metrics")
	m := res.Report.Correlation
	fmt.Fprintf(w, "  %-9s", "")
	for _, c := range m.Columns {
		fmt.Fprintf(w, "%9s", c)
	}
	fmt.Fprintln(w)
	for i, row := range m.Values {
		fmt.Fprintf(w, "  %-9s", m.Columns[i])
		for _, v := range row {
			fmt.Fprintf(w, "%9s", chart.Annotate(v))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
