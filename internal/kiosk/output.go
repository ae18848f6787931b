package kiosk

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/paykiosk/paykiosk/internal/cloudwriter"
	"github.com/paykiosk/paykiosk/internal/kiosk/producers"
	"github.com/paykiosk/paykiosk/internal/models"
	"github.com/paykiosk/paykiosk/internal/output"
)

// OutputDestination receives serialized kiosk telemetry, one topic per
// lifecycle event.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// Telemetry adapts an OutputDestination to the checkout emitter contract.
// Emission failures are logged and swallowed; telemetry never disturbs a
// customer session.
type Telemetry struct {
	out OutputDestination
}

func NewTelemetry(out OutputDestination) *Telemetry {
	return &Telemetry{out: out}
}

func (t *Telemetry) Emit(topic string, event models.KioskEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to encode %s event: %v", topic, err)
		return
	}
	if err := t.out.WriteMessage(topic, msg); err != nil {
		log.Printf("failed to write %s event: %v", topic, err)
	}
}

func (t *Telemetry) Close() error {
	return t.out.Close()
}

// NewDestination picks the telemetry sink from config: Kafka when enabled,
// then Postgres fact tables, then a json or parquet archive under the output
// path, otherwise the console.
func NewDestination(cfg *models.Config) (OutputDestination, error) {
	if cfg.KafkaEnabled {
		producer, err := producers.NewSaramaProducer(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating Kafka producer: %w", err)
		}
		return producer, nil
	}
	if cfg.OutputFormat == "postgres" {
		sink, err := output.NewPostgresOutput(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
	if cfg.OutputPath != "" {
		switch cfg.OutputFormat {
		case "parquet":
			archive, err := NewParquetOutput(cfg)
			if err != nil {
				return nil, err
			}
			return archive, nil
		case "json", "":
			return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
		default:
			return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
		}
	}
	return &ConsoleOutput{}, nil
}

// partitionPath buckets an event by its timestamp, hive-style, so downstream
// jobs can prune scans by time range.
func partitionPath(ts int64) string {
	eventTime := time.Unix(ts, 0)
	year, month, day := eventTime.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour())
}

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))
	_, err := os.Stdout.Write([]byte(output))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	_ = os.Stdout.Sync()
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// JSONOutput appends events as json lines under
// {basePath}/{folder}/{topic}/{partition}/data.json.
type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	var event models.KioskEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	partition := partitionPath(event.Timestamp)
	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)
	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	fileKey := fmt.Sprintf("%s_%s", topic, partition)
	file, ok := j.files[fileKey]
	if !ok {
		var err error
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// parquetKioskEvent mirrors models.KioskEvent with a fixed parquet schema.
type parquetKioskEvent struct {
	Timestamp     int64   `parquet:"name=timestamp, type=INT64"`
	SessionID     string  `parquet:"name=session_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ReceiptID     string  `parquet:"name=receipt_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ItemCount     int32   `parquet:"name=item_count, type=INT32"`
	Subtotal      float64 `parquet:"name=subtotal, type=DOUBLE"`
	CouponSavings float64 `parquet:"name=coupon_savings, type=DOUBLE"`
	Total         float64 `parquet:"name=total, type=DOUBLE"`
	CouponCode    string  `parquet:"name=coupon_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	Error         string  `parquet:"name=error, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetOutput archives events as partitioned parquet files, locally or in
// cloud object storage depending on configuration.
type ParquetOutput struct {
	basePath string
	folder   string

	mu      sync.Mutex
	writers map[string]*writer.ParquetWriter
	files   map[string]source.ParquetFile

	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(cfg *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: cfg.OutputPath,
		folder:   cfg.OutputFolder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	if cfg.CloudStorage.Provider != "" {
		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudWriterFactory = factory
			p.cloudBucketName = cfg.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	}

	return p, nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	var event models.KioskEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	partition := partitionPath(event.Timestamp)
	writerKey := fmt.Sprintf("%s_%s", topic, partition)

	p.mu.Lock()
	defer p.mu.Unlock()

	pw, ok := p.writers[writerKey]
	if !ok {
		var err error
		pw, err = p.newWriter(writerKey, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create parquet writer: %w", err)
		}
	}

	record := parquetKioskEvent{
		Timestamp:     event.Timestamp,
		SessionID:     event.SessionID,
		ReceiptID:     event.ReceiptID,
		ItemCount:     int32(event.ItemCount),
		Subtotal:      event.Subtotal,
		CouponSavings: event.CouponSavings,
		Total:         event.Total,
		CouponCode:    event.CouponCode,
		Error:         event.Error,
	}
	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) newWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := filepath.Join(p.folder, topic, partition, "data.parquet")
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = cloudwriter.NewParquetFile(cw)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetKioskEvent), 4)
	if err != nil {
		return nil, err
	}
	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			log.Printf("Error closing writer for key %s: %v", key, err)
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				log.Printf("Error closing file for key %s: %v", key, err)
			}
		}
	}
	return lastErr
}
