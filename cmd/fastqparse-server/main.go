// Command fastqparse-server provides a REST API for FASTQ parsing.
//
// Usage:
//
//	fastqparse-server [options]
//
// Options:
//
//	-port     Port to listen on (default: 8080)
//	-host     Host to bind to (default: localhost)
//	-verbose  Log verbosity (default: 1)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/seqwell/fastqparse/api/handlers"
	"github.com/seqwell/fastqparse/api/middleware"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	verbose := flag.Int("verbose", 1, "Log verbosity")
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", handlers.ParseHandler)
		r.Post("/stats", handlers.RunStatsHandler)

		r.Route("/quality", func(r chi.Router) {
			r.Post("/decode", handlers.DecodeQualityHandler)
			r.Post("/stats", handlers.QualityStatsHandler)
		})
	})

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>fastqparse API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>fastqparse API</h1>
    <p>A REST API for FASTQ parsing and quality analysis.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/parse</code>
        <p>Parse FASTQ content into structured records.</p>
        <pre>{"content": "@READ_1/1\nACGT\n+\nIIII\n", "phred_offset": 33}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/stats</code>
        <p>Parse FASTQ content and summarize the run.</p>
        <pre>{"content": "@READ_1/1\nACGT\n+\nIIII\n", "phred_offset": 33}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/quality/decode</code>
        <p>Decode a quality string into numeric scores.</p>
        <pre>{"encoded": "IIIIHHHH", "encoding": "phred33"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/quality/stats</code>
        <p>Calculate quality score statistics for a quality string.</p>
        <pre>{"encoded": "IIIIHHHH", "encoding": "phred33"}</pre>
    </div>
</body>
</html>`))
	})

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("fastqparse API server starting on http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", addr, err)
	}

	<-done
	log.Println("Server stopped")
}
