package dataset

import (
	"bytes"

	"github.com/parquet-go/parquet-go"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/tabular"
)

// Parquet in this system always carries the PIG record schema: the partition
// files under Status=… directories. Columns are optional strings so files
// written by other tools (which emit nullable columns) read back cleanly.

func init() {
	tabular.RegisterDecoder(tabular.FormatParquet, decodeTable)
}

// EncodePartition serializes records as one parquet partition file in
// canonical column order.
func EncodePartition(recs []schema.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write[schema.Record](&buf, recs); err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "dataset.EncodePartition", err)
	}
	return buf.Bytes(), nil
}

// DecodePartition reads one parquet partition file back into records.
func DecodePartition(data []byte) ([]schema.Record, error) {
	recs, err := parquet.Read[schema.Record](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errs.Wrap(errs.KindInput, "dataset.DecodePartition", err)
	}
	return recs, nil
}

func decodeTable(data []byte) (tabular.Table, error) {
	recs, err := DecodePartition(data)
	if err != nil {
		return tabular.Table{}, err
	}
	t := tabular.New(schema.Columns...)
	for _, r := range recs {
		t.AppendRow(r.Values())
	}
	return t, nil
}
