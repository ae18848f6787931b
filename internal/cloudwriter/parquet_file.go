package cloudwriter

import (
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go/source"
)

// ParquetFile adapts a CloudWriter to the parquet writer's file interface.
// The adapter is write-only: the parquet writer only seeks forward while
// producing a fresh file, and never reads back.
type ParquetFile struct {
	cloudWriter CloudWriter
	offset      int64
}

func NewParquetFile(cw CloudWriter) *ParquetFile {
	return &ParquetFile{cloudWriter: cw}
}

// Open returns the instance itself; cloud objects have no open step.
func (c *ParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

// Create returns the instance itself; the object comes into existence when
// the buffered bytes upload on Close.
func (c *ParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *ParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *ParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *ParquetFile) Write(p []byte) (n int, err error) {
	return c.cloudWriter.Write(p)
}

func (c *ParquetFile) Close() error {
	return c.cloudWriter.Close()
}
