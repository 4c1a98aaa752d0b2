package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/foodreview/internal/cloudwriter"
	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetParallelism = 4

type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

// CloudParquetFile is a write-only source.ParquetFile over a CloudWriter. The
// parquet writer only appends, so Seek merely reports the write offset.
type CloudParquetFile struct {
	w      cloudwriter.CloudWriter
	offset int64
}

func NewParquetOutput(ctx context.Context, config *models.Config) (*ParquetOutput, error) {
	var factory cloudwriter.CloudWriterFactory
	if config.CloudStorage.BucketName != "" {
		switch config.CloudStorage.Provider {
		case "s3":
			f, err := cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			factory = f
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
	}

	return NewParquetOutputWithFactory(config.OutputPath, config.OutputFolder, factory, config.CloudStorage.BucketName), nil
}

// NewParquetOutputWithFactory writes to the cloud when factory is non-nil and
// to local files otherwise.
func NewParquetOutputWithFactory(basePath, folder string, factory cloudwriter.CloudWriterFactory, bucket string) *ParquetOutput {
	p := &ParquetOutput{
		basePath:           basePath,
		folder:             folder,
		writers:            make(map[string]*writer.ParquetWriter),
		files:              make(map[string]source.ParquetFile),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}

	if factory == nil {
		p.removeStaleFiles()
	}
	return p
}

func NewCloudParquetFile(w cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{w: w}
}

func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Open(string) (source.ParquetFile, error) {
	return nil, errors.New("cloud parquet files cannot be reopened for reading")
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekCurrent && offset == 0 {
		return c.offset, nil
	}
	if whence == io.SeekStart && offset == c.offset {
		return c.offset, nil
	}
	return c.offset, fmt.Errorf("cloud parquet file only supports appending (seek %d from %d)", offset, whence)
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, errors.New("cloud parquet file is write-only")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.w.Close()
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	_, year, err := partitionYear(msg)
	if err != nil {
		return err
	}
	row, err := decodeRow(topic, msg)
	if err != nil {
		return err
	}

	partition := partitionPath(year)
	writerKey := fmt.Sprintf("%s_%s", topic, partition)

	p.mu.Lock()
	defer p.mu.Unlock()

	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partition)
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// removeStaleFiles deletes .parquet files left under the output folder by an
// earlier run.
func (p *ParquetOutput) removeStaleFiles() {
	root := filepath.Join(p.basePath, p.folder)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) {
			return filepath.SkipDir
		}
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".parquet" {
			return nil
		}
		return os.Remove(path)
	})
	if err != nil {
		log.Error().Err(err).Str("path", root).Msg("failed to remove stale parquet files")
	}
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	var err error
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, "data.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	schema, err := rowSchema(topic)
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, schema, parquetParallelism)
	if err != nil {
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

func rowSchema(topic string) (interface{}, error) {
	switch topic {
	case SummaryTopic:
		return new(SummaryRow), nil
	case RankingTopic:
		return new(RankingRow), nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}

func decodeRow(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case SummaryTopic:
		var row SummaryRow
		err := json.Unmarshal(msg, &row)
		return row, err
	case RankingTopic:
		var row RankingRow
		err := json.Unmarshal(msg, &row)
		return row, err
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			log.Error().Err(err).Str("key", key).Msg("Error closing parquet writer")
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				log.Error().Err(err).Str("key", key).Msg("Error closing parquet file")
			}
		}
	}
	p.writers = make(map[string]*writer.ParquetWriter)
	p.files = make(map[string]source.ParquetFile)
	return lastErr
}
