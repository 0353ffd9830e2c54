// Command agora runs the proposal governance dispatcher over stdio or
// WebSocket.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/agoralabs/agora/logx"
	"github.com/agoralabs/agora/metrics"
	"github.com/agoralabs/agora/server"
	"github.com/agoralabs/agora/service"
	"github.com/agoralabs/agora/toolset"
	"github.com/agoralabs/agora/transport"
	"github.com/agoralabs/agora/transport/stdio"
	"github.com/agoralabs/agora/transport/ws"
)

type options struct {
	transport     string
	listen        string
	metricsListen string
	logLevel      string
	logFile       string
	openAIKey     string
	openAIModel   string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "agora",
		Short: "Community proposal governance server",
		Long: `agora serves proposal, vote, comment, and analysis tools plus
proposal://, user://, and analysis:// resources over stdio or WebSocket.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.transport, "transport", "stdio", "transport to serve on (stdio or ws)")
	flags.StringVar(&opts.listen, "listen", ":8080", "listen address for the ws transport")
	flags.StringVar(&opts.metricsListen, "metrics-listen", "", "listen address for Prometheus metrics (disabled when empty)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "log to this file instead of stderr")
	flags.StringVar(&opts.openAIKey, "openai-key", "", "OpenAI API key for proposal analysis (defaults to OPENAI_API_KEY)")
	flags.StringVar(&opts.openAIModel, "openai-model", "", "OpenAI model for proposal analysis")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options) error {
	logger, cleanup, err := buildLogger(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	// Services share one proposal store so tallies stay consistent.
	proposals := service.NewProposalService()
	votes := service.NewVoteService(proposals)
	comments := service.NewCommentService(proposals)
	users := service.NewUserService(proposals, votes, comments)

	var completer service.ChatCompleter
	key := opts.openAIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key != "" {
		completer = service.NewOpenAICompleter(key, opts.openAIModel)
		logger.Info("proposal analysis backed by OpenAI")
	} else {
		logger.Info("no OpenAI key configured, proposal analysis uses heuristics")
	}
	analyses := service.NewAnalysisService(proposals, votes, comments, completer)

	serverOpts := []server.Option{server.WithLogger(logger)}
	if opts.metricsListen != "" {
		registry := prometheus.NewRegistry()
		serverOpts = append(serverOpts, server.WithMetrics(metrics.New(registry)))
		go serveMetrics(opts.metricsListen, registry, logger)
	}

	srv := server.NewServer("agora", serverOpts...)
	if err := registerCapabilities(srv, proposals, votes, comments, users, analyses); err != nil {
		return err
	}

	t, err := buildTransport(opts, logger)
	if err != nil {
		return err
	}
	t.SetMessageHandler(srv.HandleMessage)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		_ = t.Stop()
	}()

	logger.Info("agora serving", "transport", opts.transport)
	return t.Start()
}

func registerCapabilities(srv *server.Server,
	proposals *service.ProposalService,
	votes *service.VoteService,
	comments *service.CommentService,
	users *service.UserService,
	analyses *service.AnalysisService,
) error {
	toolGroups := []func() (*server.ToolGroup, error){
		func() (*server.ToolGroup, error) { return toolset.ProposalTools(proposals) },
		func() (*server.ToolGroup, error) { return toolset.VoteTools(votes) },
		func() (*server.ToolGroup, error) { return toolset.CommentTools(comments) },
		func() (*server.ToolGroup, error) { return toolset.AnalysisTools(analyses) },
	}
	for _, build := range toolGroups {
		g, err := build()
		if err != nil {
			return err
		}
		if err := srv.AddToolGroup(g); err != nil {
			return err
		}
	}

	resourceGroups := []func() (*server.ResourceGroup, error){
		func() (*server.ResourceGroup, error) { return toolset.ProposalResources(proposals) },
		func() (*server.ResourceGroup, error) { return toolset.UserResources(users) },
		func() (*server.ResourceGroup, error) { return toolset.AnalysisResources(analyses) },
	}
	for _, build := range resourceGroups {
		g, err := build()
		if err != nil {
			return err
		}
		if err := srv.AddResourceGroup(g); err != nil {
			return err
		}
	}
	return nil
}

// buildLogger honors --log-file and --log-level. On the stdio transport
// stdout carries the wire protocol, so the fallback stream is stderr.
func buildLogger(opts *options) (*slog.Logger, func(), error) {
	level, err := logx.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, nil, err
	}
	if opts.logFile != "" {
		logger, f, err := logx.NewFile(opts.logFile, level)
		if err != nil {
			return nil, nil, err
		}
		return logger, func() { _ = f.Close() }, nil
	}
	return logx.New(os.Stderr, level), func() {}, nil
}

func buildTransport(opts *options, logger *slog.Logger) (transport.Transport, error) {
	switch opts.transport {
	case "stdio":
		t := stdio.NewTransport()
		t.SetLogger(logger)
		return t, nil
	case "ws":
		t := ws.NewTransport(opts.listen)
		t.SetLogger(logger)
		return t, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (expected stdio or ws)", opts.transport)
	}
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	logger.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}
