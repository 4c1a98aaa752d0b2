// Package cloudwriter uploads generated report files to object storage.
package cloudwriter

import "io"

// CloudWriter buffers an object in memory and uploads it on Close.
type CloudWriter interface {
	io.WriteCloser
}

// CloudWriterFactory opens writers for objects in a bucket.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// FactoryFunc adapts a function to CloudWriterFactory.
type FactoryFunc func(bucket, objectPath string) (CloudWriter, error)

func (f FactoryFunc) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	return f(bucket, objectPath)
}
