package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/samber/lo"
)

// partitionFiles lazily creates one file per topic and year partition under
// basePath/folder/topic/year=YYYY/.
type partitionFiles struct {
	basePath string
	folder   string
	fileName string
	files    map[string]*os.File
}

func newPartitionFiles(basePath, folder, fileName string) partitionFiles {
	return partitionFiles{
		basePath: basePath,
		folder:   folder,
		fileName: fileName,
		files:    make(map[string]*os.File),
	}
}

// open returns the partition's file and whether it was created by this call.
func (p *partitionFiles) open(topic string, year int) (string, *os.File, bool, error) {
	partition := partitionPath(year)
	key := topic + "/" + partition
	if file, ok := p.files[key]; ok {
		return key, file, false, nil
	}

	dir := filepath.Join(p.basePath, p.folder, topic, partition)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", nil, false, err
	}
	file, err := os.Create(filepath.Join(dir, p.fileName))
	if err != nil {
		return "", nil, false, err
	}
	p.files[key] = file
	return key, file, true, nil
}

func (p *partitionFiles) closeAll() error {
	var lastErr error
	for key, file := range p.files {
		if err := file.Close(); err != nil {
			lastErr = fmt.Errorf("closing %s: %w", key, err)
		}
	}
	p.files = make(map[string]*os.File)
	return lastErr
}

// CSVOutput writes one CSV file per partition. Known topics use every column of
// their row type, so optional fields missing from the first row are kept. For
// other topics the first row fixes the columns and later rows drop unknown keys.
type CSVOutput struct {
	mu      sync.Mutex
	files   partitionFiles
	writers map[string]*csv.Writer
	headers map[string][]string
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		files:   newPartitionFiles(basePath, folder, "data.csv"),
		writers: make(map[string]*csv.Writer),
		headers: make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	row, year, err := partitionYear(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key, file, created, err := c.files.open(topic, year)
	if err != nil {
		return err
	}
	if created {
		header := topicColumns(topic)
		if header == nil {
			header = lo.Keys(row)
			slices.Sort(header)
		}
		w := csv.NewWriter(file)
		if err := w.Write(header); err != nil {
			return err
		}
		c.writers[key] = w
		c.headers[key] = header
	}

	w := c.writers[key]
	record := lo.Map(c.headers[key], func(column string, _ int) string {
		return formatCell(row[column])
	})
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for _, w := range c.writers {
		w.Flush()
		if err := w.Error(); err != nil {
			lastErr = err
		}
	}
	c.writers = make(map[string]*csv.Writer)
	if err := c.files.closeAll(); err != nil {
		lastErr = err
	}
	return lastErr
}

// JSONOutput writes newline-delimited JSON, one file per partition.
type JSONOutput struct {
	mu    sync.Mutex
	files partitionFiles
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{files: newPartitionFiles(basePath, folder, "data.json")}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	_, year, err := partitionYear(msg)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, file, _, err := j.files.open(topic, year)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(slices.Clip(msg), '\n')); err != nil {
		return fmt.Errorf("failed to write %s row: %w", topic, err)
	}
	return nil
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files.closeAll()
}
