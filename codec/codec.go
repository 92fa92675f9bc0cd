// Package codec defines how decoded rows are serialized.
package codec

import (
	"fmt"
	"io"

	csvcodec "github.com/go-data-exporter/binlogrow/codec/csv"
	htmlcodec "github.com/go-data-exporter/binlogrow/codec/html"
	jsoncodec "github.com/go-data-exporter/binlogrow/codec/json"
	xmlcodec "github.com/go-data-exporter/binlogrow/codec/xml"
	"github.com/go-data-exporter/binlogrow/scanner"
)

type Codec interface {
	Write(rows scanner.Rows, writer io.Writer) error
}

func JSON(opts ...jsoncodec.Option) Codec {
	return jsoncodec.New(opts...)
}

// NDJSON writes one JSON object per line.
func NDJSON(opts ...jsoncodec.Option) Codec {
	return jsoncodec.New(append([]jsoncodec.Option{jsoncodec.WithNewlineDelimited(true)}, opts...)...)
}

func CSV(opts ...csvcodec.Option) Codec {
	return csvcodec.New(opts...)
}

func XML(opts ...xmlcodec.Option) Codec {
	return xmlcodec.New(opts...)
}

func HTML(opts ...htmlcodec.Option) Codec {
	return htmlcodec.New(opts...)
}

// ByName returns the codec for a format name as accepted on the command
// line: "json", "ndjson", "csv", "xml" or "html".
func ByName(name string) (Codec, error) {
	switch name {
	case "json":
		return JSON(), nil
	case "ndjson":
		return NDJSON(), nil
	case "csv":
		return CSV(csvcodec.WithCustomNULL("NULL")), nil
	case "xml":
		return XML(), nil
	case "html":
		return HTML(), nil
	}
	return nil, fmt.Errorf("codec: unknown format %q", name)
}

