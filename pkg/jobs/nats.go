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

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const (
	defaultWorkStream   = "POLL_JOBS"
	defaultResultStream = "POLL_RESULTS"
	defaultAckWait      = 45 * time.Second
	defaultFetchWait    = 5 * time.Second
	resultMaxAge        = time.Hour

	jobSubjectPrefix    = "poll.jobs"
	resultSubjectPrefix = "poll.results"

	workerConsumerName = "walk-workers"
)

var errNilBrokerConfig = errors.New("nats broker config is nil")

// NATSBrokerConfig carries the JetStream settings shared by the broker
// and its workers.
type NATSBrokerConfig struct {
	WorkStream   string
	ResultStream string
	Workers      int
	Attempts     int
	BackoffBase  time.Duration
	AckWait      time.Duration
}

func (c *NATSBrokerConfig) withDefaults() NATSBrokerConfig {
	out := *c

	if out.WorkStream == "" {
		out.WorkStream = defaultWorkStream
	}

	if out.ResultStream == "" {
		out.ResultStream = defaultResultStream
	}

	if out.Workers <= 0 {
		out.Workers = defaultWorkers
	}

	if out.Attempts <= 0 {
		out.Attempts = defaultAttempts
	}

	if out.BackoffBase <= 0 {
		out.BackoffBase = defaultBackoffBase
	}

	if out.AckWait <= 0 {
		out.AckWait = defaultAckWait
	}

	return out
}

// EnsureStreams creates or updates the work and result streams. Walk
// jobs are a work queue (each consumed once); results age out after an
// hour since every flow is awaited promptly.
func EnsureStreams(ctx context.Context, js jetstream.JetStream, cfg *NATSBrokerConfig) error {
	if cfg == nil {
		return errNilBrokerConfig
	}

	c := cfg.withDefaults()

	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      c.WorkStream,
		Subjects:  []string{jobSubjectPrefix + ".>"},
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure work stream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     c.ResultStream,
		Subjects: []string{resultSubjectPrefix + ".>"},
		MaxAge:   resultMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure result stream: %w", err)
	}

	return nil
}

// NATSBroker submits poll flows over JetStream and awaits their
// results. Walk execution happens in NATSWorker instances, which may
// run in the same process or on other nodes.
type NATSBroker struct {
	js     jetstream.JetStream
	cfg    NATSBrokerConfig
	logger logger.Logger
}

func NewNATSBroker(js jetstream.JetStream, cfg *NATSBrokerConfig, log logger.Logger) (*NATSBroker, error) {
	if cfg == nil {
		return nil, errNilBrokerConfig
	}

	return &NATSBroker{js: js, cfg: cfg.withDefaults(), logger: log}, nil
}

// SubmitFlow publishes every child as one work-queue message.
func (b *NATSBroker) SubmitFlow(ctx context.Context, spec models.PollJobSpec) (*FlowHandle, error) {
	for _, child := range spec.Children {
		payload, err := json.Marshal(child)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal walk job %s: %w", child.ID, err)
		}

		subject := fmt.Sprintf("%s.%s.%s", jobSubjectPrefix, spec.FlowID, child.ID)

		if _, err := b.js.Publish(ctx, subject, payload); err != nil {
			return nil, fmt.Errorf("failed to publish walk job %s: %w", child.ID, err)
		}
	}

	b.logger.Debug().
		Str("flow_id", spec.FlowID).
		Str("controller", spec.Controller.Name).
		Int("children", len(spec.Children)).
		Msg("Submitted poll flow")

	return &FlowHandle{FlowID: spec.FlowID, Expected: len(spec.Children)}, nil
}

// AwaitCompletion collects one result message per child from the
// result stream. Failed children arrive as explicit failure results
// published by the worker after its final attempt, so a fully settled
// flow always yields exactly Expected messages.
func (b *NATSBroker) AwaitCompletion(ctx context.Context, handle *FlowHandle) (*FlowResult, error) {
	consumer, err := b.js.OrderedConsumer(ctx, b.cfg.ResultStream, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{fmt.Sprintf("%s.%s.>", resultSubjectPrefix, handle.FlowID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result consumer for flow %s: %w", handle.FlowID, err)
	}

	children := make([]ChildResult, 0, handle.Expected)

	for len(children) < handle.Expected {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("awaiting flow %s: %w", handle.FlowID, err)
		}

		msgs, err := consumer.Fetch(handle.Expected-len(children), jetstream.FetchMaxWait(defaultFetchWait))
		if err != nil {
			if errors.Is(err, jetstream.ErrNoMessages) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}

			return nil, fmt.Errorf("failed to fetch results for flow %s: %w", handle.FlowID, err)
		}

		for msg := range msgs.Messages() {
			var result ChildResult

			if err := json.Unmarshal(msg.Data(), &result); err != nil {
				b.logger.Error().Err(err).Str("flow_id", handle.FlowID).Msg("Discarding undecodable child result")
				continue
			}

			children = append(children, result)
		}

		if err := msgs.Error(); err != nil {
			b.logger.Debug().Err(err).Str("flow_id", handle.FlowID).Msg("Result fetch round ended with error")
		}
	}

	return &FlowResult{
		FlowID:   handle.FlowID,
		State:    StateOf(children),
		Children: children,
	}, nil
}

// NATSWorker pulls walk jobs from the work stream, executes them and
// publishes per-child results. Retries ride on JetStream redelivery:
// a Nak'd job is redelivered after the configured backoff until
// MaxDeliver attempts are spent, at which point the worker publishes
// an explicit failure result so the parent flow can settle.
type NATSWorker struct {
	js       jetstream.JetStream
	executor Executor
	cfg      NATSBrokerConfig
	logger   logger.Logger
}

func NewNATSWorker(js jetstream.JetStream, executor Executor, cfg *NATSBrokerConfig, log logger.Logger) (*NATSWorker, error) {
	if cfg == nil {
		return nil, errNilBrokerConfig
	}

	return &NATSWorker{js: js, executor: executor, cfg: cfg.withDefaults(), logger: log}, nil
}

// Run blocks until ctx is canceled, processing walk jobs on a bounded
// pool of puller goroutines.
func (w *NATSWorker) Run(ctx context.Context) error {
	backoffs := make([]time.Duration, 0, w.cfg.Attempts-1)
	for i := 0; i < w.cfg.Attempts-1; i++ {
		backoffs = append(backoffs, w.cfg.BackoffBase<<i)
	}

	consumerCfg := jetstream.ConsumerConfig{
		Durable:       workerConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       w.cfg.AckWait,
		MaxDeliver:    w.cfg.Attempts,
		MaxAckPending: w.cfg.Workers * 2,
	}
	if len(backoffs) > 0 {
		consumerCfg.BackOff = backoffs
	}

	consumer, err := w.js.CreateOrUpdateConsumer(ctx, w.cfg.WorkStream, consumerCfg)
	if err != nil {
		return fmt.Errorf("failed to create worker consumer: %w", err)
	}

	w.logger.Info().
		Int("workers", w.cfg.Workers).
		Int("attempts", w.cfg.Attempts).
		Msg("Starting walk workers")

	done := make(chan struct{})

	for i := 0; i < w.cfg.Workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			w.pullLoop(ctx, consumer)
		}()
	}

	for i := 0; i < w.cfg.Workers; i++ {
		<-done
	}

	return nil
}

func (w *NATSWorker) pullLoop(ctx context.Context, consumer jetstream.Consumer) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(defaultFetchWait))
		if err != nil {
			if !errors.Is(err, jetstream.ErrNoMessages) {
				w.logger.Warn().Err(err).Msg("Failed to fetch walk job")
				time.Sleep(time.Second)
			}

			continue
		}

		for msg := range msgs.Messages() {
			w.handleJob(ctx, msg)
		}
	}
}

func (w *NATSWorker) handleJob(ctx context.Context, msg jetstream.Msg) {
	var spec models.WalkJobSpec

	if err := json.Unmarshal(msg.Data(), &spec); err != nil {
		w.logger.Error().Err(err).Str("subject", msg.Subject()).Msg("Discarding undecodable walk job")
		_ = msg.Ack()

		return
	}

	attempt := 1
	if meta, err := msg.Metadata(); err == nil {
		attempt = int(meta.NumDelivered)
	}

	metrics, err := w.executor.Execute(ctx, spec)
	if err == nil {
		w.publishResult(ctx, ChildResult{Spec: spec, Metrics: metrics, Attempts: attempt})
		_ = msg.Ack()

		return
	}

	w.logger.Warn().
		Err(err).
		Str("controller", spec.Controller.Name).
		Str("alias", spec.OID.Alias).
		Int("attempt", attempt).
		Msg("Walk job attempt failed")

	if attempt >= w.cfg.Attempts {
		// Final attempt: settle the child as an isolated failure so
		// the parent can proceed with its surviving children.
		w.publishResult(ctx, ChildResult{Spec: spec, Failed: true, Attempts: attempt, Error: err.Error()})
		_ = msg.Ack()

		return
	}

	_ = msg.Nak()
}

func (w *NATSWorker) publishResult(ctx context.Context, result ChildResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", result.Spec.ID).Msg("Failed to marshal child result")
		return
	}

	subject := fmt.Sprintf("%s.%s.%s", resultSubjectPrefix, result.Spec.FlowID, result.Spec.ID)

	if _, err := w.js.Publish(ctx, subject, payload); err != nil {
		w.logger.Error().Err(err).Str("job_id", result.Spec.ID).Msg("Failed to publish child result")
	}
}
