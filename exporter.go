// Package binlogrow decodes MySQL row-based binlog row images and exports
// the rows through a codec.
package binlogrow

import (
	"io"
	"os"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/go-data-exporter/binlogrow/codec"
	"github.com/go-data-exporter/binlogrow/scanner"
	"github.com/go-data-exporter/binlogrow/table"
)

type Exporter struct {
	rows   scanner.Rows
	codec  codec.Codec
	logger *zap.Logger
}

type Option func(*Exporter)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func New(rows scanner.Rows, codec codec.Codec, opts ...Option) *Exporter {
	e := &Exporter{
		rows:   rows,
		codec:  codec,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromImages exports the consecutive row images in data, decoded with t.
// A nil present bitmap means every column is present.
func FromImages(t *table.Table, data []byte, present table.Bitmap, codec codec.Codec, opts ...Option) *Exporter {
	e := New(scanner.FromImages(t, data, present), codec, opts...)
	e.logger = e.logger.With(zap.Stringer("table", t))
	return e
}

func (e *Exporter) Write(writer io.Writer) error {
	if err := e.codec.Write(e.rows, writer); err != nil {
		e.logger.Error("export failed", zap.String("driver", e.rows.Driver()), zap.Error(err))
		return errors.Trace(err)
	}
	e.logger.Debug("export finished", zap.String("driver", e.rows.Driver()))
	return nil
}

func (e *Exporter) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	if err := e.Write(f); err != nil {
		return err
	}
	return errors.Trace(f.Close())
}
