// Command binlogrow decodes MySQL rows-event row images and prints the rows.
//
// The table is described by a JSON file (see tableConfig). Row images are
// read from stdin as hex, one or more per line:
//
//	echo 007f036162 6399b2dedb5e | binlogrow -table orders.json -format csv
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/go-data-exporter/binlogrow"
	"github.com/go-data-exporter/binlogrow/codec"
	"github.com/go-data-exporter/binlogrow/table"
)

func main() {
	var (
		tablePath = flag.String("table", "", "path to the JSON table definition")
		format    = flag.String("format", "json", "output format: json, ndjson, csv, xml or html")
		out       = flag.String("out", "", "output file (default stdout)")
		present   = flag.String("present", "", "columns-present bitmap as hex (default all columns)")
		partial   = flag.Bool("partial", false, "keep rows with malformed values, setting them to NULL")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "binlogrow:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger, *tablePath, *format, *out, *present, *partial, os.Stdin, os.Stdout); err != nil {
		logger.Error("binlogrow failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(logger *zap.Logger, tablePath, format, out, present string, partial bool, in io.Reader, stdout io.Writer) error {
	if tablePath == "" {
		return errors.New("-table is required")
	}
	c, err := codec.ByName(format)
	if err != nil {
		return errors.Trace(err)
	}
	t, err := loadTable(tablePath, table.WithLogger(logger), table.WithPartialRows(partial))
	if err != nil {
		return err
	}
	var bitmap table.Bitmap
	if present != "" {
		if bitmap, err = hex.DecodeString(present); err != nil {
			return errors.Annotate(err, "-present")
		}
	}
	data, err := readImages(in)
	if err != nil {
		return err
	}
	logger.Info("decoding row images",
		zap.Stringer("table", t),
		zap.Int("columns", t.ColumnCount()),
		zap.Int("bytes", len(data)))

	e := binlogrow.FromImages(t, data, bitmap, c, binlogrow.WithLogger(logger))
	if out != "" {
		return e.WriteFile(out)
	}
	return e.Write(stdout)
}

// readImages reads hex row images, ignoring blank lines, whitespace and
// lines starting with '#'.
func readImages(r io.Reader) ([]byte, error) {
	var data []byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64<<20)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		b, err := hex.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, errors.Annotatef(err, "line %d", line)
		}
		data = append(data, b...)
	}
	return data, errors.Trace(sc.Err())
}
