package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/clinic-console/fakeapi"
	"github.com/spf13/cobra"
)

var errPanicRecovered = errors.New("panic recovered")

func mockServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mock-server",
		Short: "Run the in-memory clinic backend for demos and local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			for {
				err := runMockServer()
				if !errors.Is(err, errPanicRecovered) {
					log.Printf("Mock server stopped\n")
					return err
				}
				log.Printf("Restarting mock server: %s\n", err)
				time.Sleep(1 * time.Second)
			}
		},
	}
}

func runMockServer() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errPanicRecovered
		}
	}()

	backend, err := fakeapi.New(cfg)
	if err != nil {
		return err
	}
	displayAppname(cfg.GetAppName())
	server := &http.Server{Addr: cfg.GetMockPort(), Handler: backend}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(server) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Mock server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
