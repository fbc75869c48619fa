package tsdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/lan-wake-core/internal/infrastructure/config"
	"github.com/nerrad567/lan-wake-core/internal/status"
)

// Defaults applied when the config leaves batching unset.
const (
	// defaultBatchSize is the number of points buffered before a write.
	defaultBatchSize = 20

	// defaultFlushInterval is the maximum time a point sits in the buffer (ms).
	defaultFlushInterval = 5000

	// pingTimeout bounds the initial reachability check.
	pingTimeout = 5 * time.Second
)

// probeMeasurement is the measurement name for probe results.
const probeMeasurement = "probe"

// Logger interface for optional logging support.
// Compatible with logging.Logger.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Writer records probe results in InfluxDB.
//
// It implements status.Sink. Points are buffered client-side and flushed
// in batches by a background goroutine owned by the InfluxDB client.
type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	done chan struct{}

	logger   Logger
	loggerMu sync.RWMutex
}

// Connect creates a Writer and verifies the InfluxDB instance is reachable.
//
// Returns ErrInvalidConfig if the URL, org or bucket is missing, and
// ErrConnectionFailed if the instance does not answer a ping.
func Connect(ctx context.Context, cfg config.TSDBConfig) (*Writer, error) {
	if cfg.URL == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: url, org and bucket are required", ErrInvalidConfig)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	ok, err := client.Ping(pingCtx)
	if err != nil || !ok {
		client.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		}
		return nil, fmt.Errorf("%w: instance not ready", ErrConnectionFailed)
	}

	w := &Writer{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		done:     make(chan struct{}),
		logger:   noopLogger{},
	}

	go w.drainErrors()

	return w, nil
}

// drainErrors logs asynchronous write failures until Close is called.
func (w *Writer) drainErrors() {
	errCh := w.writeAPI.Errors()
	for {
		select {
		case err, ok := <-errCh:
			if !ok {
				return
			}
			w.log().Warn("probe history write failed", "error", err)
		case <-w.done:
			return
		}
	}
}

// SetLogger sets the logger for write failure diagnostics.
func (w *Writer) SetLogger(logger Logger) {
	w.loggerMu.Lock()
	w.logger = logger
	w.loggerMu.Unlock()
}

func (w *Writer) log() Logger {
	w.loggerMu.RLock()
	defer w.loggerMu.RUnlock()
	return w.logger
}

// RecordStatus buffers a probe result for asynchronous write.
//
// Implements status.Sink. Records with no probe outcome (no CheckedAt) are
// skipped: an unknown state carries no history worth charting.
func (w *Writer) RecordStatus(name string, rec status.Record) {
	point := probePoint(name, rec)
	if point == nil {
		return
	}
	w.writeAPI.WritePoint(point)
}

// probePoint converts a probe result into a line protocol point.
// Returns nil for records without a probe timestamp.
func probePoint(name string, rec status.Record) *write.Point {
	if rec.CheckedAt == nil || rec.Online == nil {
		return nil
	}

	online := 0
	if *rec.Online {
		online = 1
	}

	fields := map[string]interface{}{
		"online": online,
	}
	if rec.RTTMillis != nil {
		fields["rtt_ms"] = *rec.RTTMillis
	}

	return write.NewPoint(
		probeMeasurement,
		map[string]string{
			"device": name,
			"ip":     rec.IP,
		},
		fields,
		*rec.CheckedAt,
	)
}

// Close flushes buffered points and releases the client.
func (w *Writer) Close() error {
	close(w.done)
	w.writeAPI.Flush()
	w.client.Close()
	return nil
}
