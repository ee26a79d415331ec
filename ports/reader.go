package ports

import (
	"driftwatch/domain/dataset"
)

// TableReader loads a tabular snapshot from an external source.
// The core only ever sees the resulting in-memory Table.
type TableReader interface {
	Read() (*dataset.Table, error)
}
