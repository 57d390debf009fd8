// Command steepwatch watches a kettle through an IR thermometer,
// recognizes the moment hot water hits the pot and nags about
// steeping times until the tea is rescued.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/luki/steepwatch/internal/config"
	"github.com/luki/steepwatch/internal/httpapi"
	"github.com/luki/steepwatch/internal/monitor"
	"github.com/luki/steepwatch/internal/sampler"
	"github.com/luki/steepwatch/internal/steep"
	"github.com/luki/steepwatch/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "steepwatch:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	sourceFlag := flag.String("source", "", "sensor source: mlx90614, sine or step (overrides env)")
	teaFlag := flag.String("tea", "", "steeping profile: green, black or red (overrides env)")
	brokerFlag := flag.String("broker", "", "MQTT broker URL for telemetry (overrides env)")
	flag.Parse()
	if *sourceFlag != "" {
		cfg.Source = *sourceFlag
	}
	if *teaFlag != "" {
		cfg.Tea = *teaFlag
	}
	if *brokerFlag != "" {
		cfg.MQTTBroker = *brokerFlag
	}

	lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	lg.Info("starting", "session", sessionID, "source", cfg.Source, "period", cfg.SamplePeriod)

	var sink telemetry.Sink = telemetry.NopSink{}
	alert := func() { lg.Info("steeping reminder") }
	if cfg.MQTTBroker != "" {
		ms, err := telemetry.NewMQTTSink(cfg.MQTTBroker, sessionID, lg)
		if err != nil {
			return err
		}
		defer ms.Close()
		sink = ms
		alert = func() {
			lg.Info("steeping reminder")
			ms.PublishAlert()
		}
	}

	var tea *steep.TeaType
	if cfg.Tea != "" {
		t, err := steep.ParseTeaType(cfg.Tea)
		if err != nil {
			return err
		}
		tea = &t
		lg.Info("steeping profile", "tea", t.String())
	}

	bus := sampler.NewBus()
	readings, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	session := monitor.NewSession(monitor.Options{
		Params: cfg.Detection,
		Sink:   sink,
		Alert:  alert,
		Tea:    tea,
		Log:    lg,
	})

	admin := httpapi.NewServer(cfg.HTTPBind, session, lg)
	go func() {
		if err := admin.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("admin api failed", "error", err)
		}
	}()
	defer admin.Stop(context.Background())

	loop := &sampler.Loop{
		Source: cfg.BuildSource(),
		Bus:    bus,
		Period: cfg.SamplePeriod,
		Log:    lg,
	}
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	done := make(chan struct{})
	go func() {
		session.Run(ctx, readings)
		close(done)
	}()

	select {
	case err := <-loopErr:
		stop()
		<-done
		if err != nil {
			return err
		}
	case <-done:
		if err := <-loopErr; err != nil {
			return err
		}
	}

	lg.Info("stopped")
	return nil
}
