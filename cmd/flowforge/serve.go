package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/flowforge"
	httpAdapter "github.com/aretw0/flowforge/pkg/adapters/http"
	redisAdapter "github.com/aretw0/flowforge/pkg/adapters/redis"
	"github.com/aretw0/flowforge/pkg/blocks"
	"github.com/aretw0/flowforge/pkg/observability"
	"github.com/aretw0/flowforge/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Start the HTTP control server",
	Long: `Assembles the graph and exposes it over HTTP: block and line inspection, manual actions
(step, stop, abort, ready, reset), a Mermaid rendering, state change events and Prometheus
metrics. With --redis-addr the context store, service bus and step locks live in Redis.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		redisPrefix, _ := cmd.Flags().GetString("redis-prefix")
		withWorker, _ := cmd.Flags().GetBool("worker")

		logger, err := newLogger(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			fmt.Printf("Error registering metrics: %v\n", err)
			os.Exit(1)
		}

		streams := httpAdapter.NewStreamManager(logger)
		opts := []flowforge.Option{
			flowforge.WithMetrics(metrics),
			flowforge.WithListener(streams),
		}

		var bus ports.ServiceBus
		if redisAddr != "" {
			client := backend.NewClient(&backend.Options{Addr: redisAddr})
			defer client.Close()
			if err := client.Ping(cmd.Context()).Err(); err != nil {
				fmt.Printf("Error connecting to redis at %s: %v\n", redisAddr, err)
				os.Exit(1)
			}
			redisBus := redisAdapter.NewBus(client, redisAdapter.WithPrefix(redisPrefix))
			bus = redisBus
			opts = append(opts,
				flowforge.WithStore(redisAdapter.NewFromClient(client, redisAdapter.WithPrefix(redisPrefix))),
				flowforge.WithBus(redisBus),
				flowforge.WithLocker(redisAdapter.NewLocker(client, redisPrefix), 0),
			)
		}

		flow, err := openFlow(cmd, args, opts...)
		if err != nil {
			fmt.Printf("Error initializing flowforge: %v\n", err)
			os.Exit(1)
		}
		if bus == nil {
			bus = flow.Bus()
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if withWorker {
			worker := blocks.NewWorker(bus, 0, logger)
			registerDemoServices(worker)
			go func() {
				if err := worker.Start(ctx); err != nil && err != context.Canceled {
					logger.Error("service worker stopped", "err", err)
				}
			}()
			defer worker.Shutdown()
		}

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(flow,
				httpAdapter.WithStreams(streams),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(logger),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Flowforge Server on %s\n", srv.Addr)
			fmt.Printf("Serving graph: %s\n", flow.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)
			cancel()

			// Give outstanding requests a deadline for completion.
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Flowforge Server stopped gracefully")
		}
	},
}

// registerDemoServices wires the text services the built-in worker answers.
func registerDemoServices(w *blocks.Worker) {
	w.Handle("upper", func(ctx context.Context, payload []byte) ([]byte, error) {
		return []byte(strings.ToUpper(string(payload))), nil
	})
	w.Handle("lower", func(ctx context.Context, payload []byte) ([]byte, error) {
		return []byte(strings.ToLower(string(payload))), nil
	})
	w.Handle("echo", func(ctx context.Context, payload []byte) ([]byte, error) {
		return payload, nil
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the context store, service bus and locks")
	serveCmd.Flags().String("redis-prefix", redisAdapter.DefaultPrefix, "Key prefix in Redis (empty uses the default)")
	serveCmd.Flags().Bool("worker", true, "Answer the upper, lower and echo services in-process")
}
