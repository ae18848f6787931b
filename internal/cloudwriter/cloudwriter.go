// Package cloudwriter abstracts object-storage uploads for the telemetry
// archive. Writers buffer locally and upload the whole object on Close, which
// matches how the parquet writer finalizes files.
package cloudwriter

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
