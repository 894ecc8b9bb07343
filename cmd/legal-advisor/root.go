package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/server"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "legal-advisor",
		Short:         "Multilingual legal question answering over BNS, BSA and BNSS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults are used when empty)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newMCPCmd(opts), newAskCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var mcpOverHTTP bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := signalContext()
			defer cancel()
			a.start(ctx)

			h := server.NewHandler(a.pipeline, a.store)
			h.PreloadOnLanguageChange = true
			extra := map[string]http.Handler{}
			if mcpOverHTTP {
				extra["/mcp"] = server.NewMCPHTTPHandler(server.NewMCPServer("legal-advisor", a.pipeline))
			}
			limiter := server.NewIPRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
			return server.ListenAndServe(ctx, cfg.Server.Addr, server.NewServeMux(h, limiter, extra))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&mcpOverHTTP, "mcp-http", false, "also expose the MCP tools over streamable HTTP at /mcp")
	return cmd
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := signalContext()
			defer cancel()
			a.start(ctx)
			return server.ServeStdio(server.NewMCPServer("legal-advisor", a.pipeline))
		},
	}
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and print the JSON response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := signalContext()
			defer cancel()
			resp, err := a.pipeline.Ask(ctx, schema.ChatRequest{Query: strings.Join(args, " "), Language: lang})
			if err != nil {
				var cfgErr *schema.ConfigurationError
				if errors.As(err, &cfgErr) {
					return fmt.Errorf("%w (check index.root=%s)", err, cfg.Index.Root)
				}
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "language of the question (en, hi, ne)")
	return cmd
}
