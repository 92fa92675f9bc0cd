package scanner

// Rows is a forward-only source of rows for a codec.
type Rows interface {
	Next() bool
	ScanRow() ([]any, error)
	Columns() ([]Column, error)
	Driver() string
	Err() error
}

// Metadata is passed to custom value mappers.
type Metadata struct {
	RowID  int
	Driver string
	Column Column
}

// Driver identifies rows decoded from binlog row images.
const Driver = "mysql-binlog"
