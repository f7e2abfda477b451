// Command wikicrawl crawls wiki category talk pages and writes the resulting
// page graph to disk.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wikitalk/crawler/internal/crawl"
	"github.com/wikitalk/crawler/pkg/client"
	"github.com/wikitalk/crawler/pkg/fetch"
	"github.com/wikitalk/crawler/pkg/graph"
	"github.com/wikitalk/crawler/pkg/logging"
)

const version = "0.1.0"

const defaultUserAgent = "wikicrawl/" + version + " (https://github.com/wikitalk/crawler)"

func main() {
	root := &cobra.Command{
		Use:           "wikicrawl",
		Short:         "crawl wiki category talk pages into a page graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(crawlCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func crawlCmd() *cobra.Command {
	var (
		baseURL     string
		userAgent   string
		ceiling     int
		workers     int
		timeout     time.Duration
		retries     int
		redisAddr   string
		cacheTTL    time.Duration
		outPath     string
		outFormat   string
		logLevel    string
		pretty      bool
		noProgress  bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "crawl CATEGORY...",
		Short: "crawl the talk pages of one or more categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(logLevel),
				Pretty: pretty,
				Output: os.Stderr,
			})

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						log.Error().Err(err).Msg("Metrics server failed")
					}
				}()
				log.Info().Str("addr", metricsAddr).Msg("Serving metrics")
			}

			clientCfg := client.DefaultConfig(userAgent)
			clientCfg.Timeout = timeout
			clientCfg.CacheTTL = cacheTTL
			clientCfg.Retry.MaxAttempts = retries
			if redisAddr != "" {
				redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
				if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				defer redisClient.Close()
				clientCfg.Redis = redisClient
			}

			wikiClient, err := client.New(clientCfg)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			defer wikiClient.Close()

			crawlCfg := crawl.DefaultConfig(args)
			crawlCfg.BaseURL = baseURL
			crawlCfg.Scheduler = fetch.Config{
				Ceiling: ceiling,
				Workers: workers,
			}

			var progress crawl.StageProgress
			if !noProgress {
				progress = terminalProgress
			}

			g, info, err := crawl.New(wikiClient, crawlCfg).Run(cmd.Context(), progress)
			if err != nil {
				return fmt.Errorf("crawl: %w", err)
			}

			if err := writeGraph(g, outPath, outFormat); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "crawled %d talk pages (%d archives), %d nodes, %d edges (%d user links), %d failed fetches -> %s\n",
				len(info.TalkTitles), len(info.ArchiveTitles),
				g.NodeCount(), g.EdgeCount(), info.UserEdges, info.Failed, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", crawl.DefaultConfig(nil).BaseURL, "wiki action API endpoint")
	cmd.Flags().StringVar(&userAgent, "user-agent", defaultUserAgent, "User-Agent header sent with every request")
	cmd.Flags().IntVar(&ceiling, "ceiling", 200, "max descriptors fetched with direct concurrency before pooling")
	cmd.Flags().IntVar(&workers, "workers", 50, "worker pool size above the ceiling")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().IntVar(&retries, "retries", 3, "max attempts per request")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the response cache (empty disables caching)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 15*time.Minute, "response cache TTL")
	cmd.Flags().StringVar(&outPath, "out", "graph.json", "output file path")
	cmd.Flags().StringVar(&outFormat, "format", "json", "output format: json or dot")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "human-readable console logs")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable terminal progress bars")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the wikicrawl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("wikicrawl " + version)
		},
	}
}

// terminalProgress renders one tqdm bar per pipeline stage, advanced by the
// scheduler's completion events.
func terminalProgress(stage string, total int) fetch.Progress {
	if total <= 0 {
		return nil
	}

	// Buffered so completion events never block the scheduler
	events := make(chan struct{}, total)
	go func() {
		_ = tqdm.With(iterators.Interval(0, total), "Fetching "+stage, func(v interface{}) (brk bool) {
			<-events
			return
		})
	}()

	return func(desc fetch.Descriptor, err error) {
		events <- struct{}{}
	}
}

// writeGraph writes the graph in the requested format.
func writeGraph(g *graph.Graph, path, format string) error {
	fs := afero.NewOsFs()
	switch format {
	case "json":
		return g.WriteJSON(fs, path)
	case "dot":
		return g.WriteDOT(fs, path)
	default:
		return fmt.Errorf("unknown output format %q (want json or dot)", format)
	}
}
