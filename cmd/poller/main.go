/*
 * Copyright 2025 The KUWIN AP Backend Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// The poller binary runs the whole telemetry acquisition pipeline on
// one node: it schedules poll cycles, executes walk jobs over
// JetStream, reconciles snapshots into the inventory and streams
// points to the timeseries store.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/aggregator"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/config"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/db"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/jobs"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/lifecycle"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/metricstore"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/natsutil"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/oidcat"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/poller"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/reconciler"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/registry"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/snmp"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/version"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/walker"
)

func main() {
	configPath := flag.String("config", "/etc/kuwin/poller.json", "Path to config file")
	flag.Parse()

	ctx := context.Background()

	var cfg models.CoreServiceConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := lifecycle.InitializeLogger(ctx, cfg.Logging, "poller")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := lifecycle.Run(ctx, func(ctx context.Context) error {
		return run(ctx, &cfg, logg)
	}); err != nil {
		log.Fatalf("Poller exited: %v", err)
	}
}

func run(ctx context.Context, cfg *models.CoreServiceConfig, logg logger.Logger) error {
	catalog, err := oidcat.New(cfg.Catalog...)
	if err != nil {
		return err
	}

	conn, err := db.NewTimeseriesConn(ctx, &cfg.Timeseries)
	if err != nil {
		return err
	}

	writer := metricstore.NewProtonWriter(conn, cfg.Timeseries.WriteBuffer, logg)
	defer func() {
		if err := writer.Close(); err != nil {
			logg.Error().Err(err).Msg("Failed to flush writer on shutdown")
		}
	}()

	pool, err := db.NewInventoryPool(ctx, &cfg.Database)
	if err != nil {
		return err
	}

	inventory := registry.NewPostgresInventory(pool, logg)
	defer inventory.Close()

	natsOpts := []nats.Option{nats.Name("kuwin-poller")}

	if cfg.NATS.Security != nil {
		tlsConf, tlsErr := natsutil.TLSConfig(cfg.NATS.Security)
		if tlsErr != nil {
			return tlsErr
		}

		natsOpts = append(natsOpts, nats.Secure(tlsConf))
	}

	nc, err := nats.Connect(cfg.NATS.URL, natsOpts...)
	if err != nil {
		return err
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}

	brokerCfg := &jobs.NATSBrokerConfig{
		WorkStream:   cfg.NATS.WorkStream,
		ResultStream: cfg.NATS.ResultStream,
		Workers:      cfg.Poller.Workers,
		Attempts:     cfg.Poller.Attempts,
		BackoffBase:  time.Duration(cfg.Poller.BackoffBase),
		AckWait:      time.Duration(cfg.NATS.AckWait),
	}

	if err := jobs.EnsureStreams(ctx, js, brokerCfg); err != nil {
		return err
	}

	executor := jobs.NewWalkExecutor(
		&snmp.ClientOpener{},
		walker.New(catalog, cfg.Poller.MaxRepetitions, logg),
		time.Duration(cfg.Poller.ChildTimeout),
		logg,
	)

	worker, err := jobs.NewNATSWorker(js, executor, brokerCfg, logg)
	if err != nil {
		return err
	}

	broker, err := jobs.NewNATSBroker(js, brokerCfg, logg)
	if err != nil {
		return err
	}

	workerDone := make(chan error, 1)

	go func() {
		workerDone <- worker.Run(ctx)
	}()

	orchestrator := poller.New(
		catalog,
		broker,
		aggregator.New(logg),
		reconciler.NewSink(inventory, logg),
		writer,
		cfg.Controllers,
		time.Duration(cfg.PollInterval),
		logg,
	)

	logg.Info().
		Str("version", version.GetFullVersion()).
		Int("controllers", len(cfg.Controllers)).
		Str("interval", time.Duration(cfg.PollInterval).String()).
		Msg("Starting poll cycles")

	err = orchestrator.Run(ctx)

	if workerErr := <-workerDone; workerErr != nil && err == nil {
		err = workerErr
	}

	return err
}
