package ports

import (
	"abstop/domain/experiment"
)

// DatasetReaderPort loads experiment observations from an external file
type DatasetReaderPort interface {
	Read(path string) (*experiment.Dataset, error)
}
