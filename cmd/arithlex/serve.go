package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/arith-lexer/pkg/api"
	grpcapi "github.com/lemonberrylabs/arith-lexer/pkg/api/grpc"
	"github.com/lemonberrylabs/arith-lexer/pkg/store"
	"github.com/lemonberrylabs/arith-lexer/web"
)

// serveConfig holds the resolved listen settings.
type serveConfig struct {
	Host      string
	Port      string
	GRPCPort  string
	AccessLog bool
}

func (c serveConfig) httpAddr() string { return fmt.Sprintf("%s:%s", c.Host, c.Port) }
func (c serveConfig) grpcAddr() string { return fmt.Sprintf("%s:%s", c.Host, c.GRPCPort) }

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lexer over HTTP and gRPC",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	cmd.Flags().Bool("access-log", false, "Log every HTTP request")
	return cmd
}

// resolveServeConfig applies flag values over environment variables over
// defaults.
func resolveServeConfig(cmd *cobra.Command) serveConfig {
	cfg := serveConfig{
		Port:     envOrDefault("PORT", "8787"),
		GRPCPort: envOrDefault("GRPC_PORT", "8788"),
		Host:     envOrDefault("HOST", "0.0.0.0"),
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = fmt.Sprintf("%d", v)
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.GRPCPort = fmt.Sprintf("%d", v)
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	cfg.AccessLog, _ = cmd.Flags().GetBool("access-log")
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := resolveServeConfig(cmd)

	var middleware []fiber.Handler
	if cfg.AccessLog {
		middleware = append(middleware, logger.New())
	}

	s := store.New()
	server := api.New(s, middleware...)
	web.New(s).Register(server.App())

	// Start gRPC server
	grpcServer := grpcapi.New(s)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.grpcAddr())
		if err := grpcServer.Serve(cfg.grpcAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down arithlex...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("arithlex listening on %s (UI at /ui)", cfg.httpAddr())
	return server.Listen(cfg.httpAddr())
}
