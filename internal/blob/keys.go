package blob

import (
	"path"
	"strings"
	"time"

	"github.com/pimops/pigman/internal/config"
)

// backupTimeLayout names history snapshots to the second, in UTC.
const backupTimeLayout = "20060102_150405"

// Keys resolves every blob key the application touches from the configured
// layout. All dataset keys live under the data prefix so persist and reload
// always address the same files.
type Keys struct {
	data config.DatasetConfig
	pub  config.PublishConfig
}

// NewKeys builds the key layout from configuration. It relies on the
// normalization the config loader applies (trailing slashes on prefixes,
// none on directories).
func NewKeys(data config.DatasetConfig, pub config.PublishConfig) Keys {
	return Keys{data: data, pub: pub}
}

// DataPrefix roots the managed dataset. Listing it doubles as the access
// probe for new sessions.
func (k Keys) DataPrefix() string {
	return k.data.DataPrefix
}

// Partition returns the key of one status partition file.
func (k Keys) Partition(status string) string {
	return k.data.DataPrefix + k.data.PartitionDir + "/Status=" + status + "/" + k.data.PartitionFile
}

// CategoryValues returns the category reference list key.
func (k Keys) CategoryValues() string {
	return k.data.DataPrefix + k.data.ValidationDir + "/category_values.csv"
}

// StatusValues returns the status reference list key.
func (k Keys) StatusValues() string {
	return k.data.DataPrefix + k.data.ValidationDir + "/status_values.csv"
}

// RepositoryPrefix is where accepted PIG workbooks are archived.
func (k Keys) RepositoryPrefix() string {
	return k.data.RepositoryPrefix
}

// RepositoryWorkbook returns the archive key for one item's workbook.
func (k Keys) RepositoryWorkbook(item string) string {
	return k.data.RepositoryPrefix + item + "_PIG.xlsx"
}

// Export returns the published export key.
func (k Keys) Export() string {
	return k.pub.ExportKey
}

// ExportPrefix returns the directory holding the export, for browsing.
func (k Keys) ExportPrefix() string {
	dir := path.Dir(k.pub.ExportKey)
	if dir == "." {
		return ""
	}
	return dir + "/"
}

// History returns the timestamped backup key for an export snapshot taken
// at the given instant.
func (k Keys) History(t time.Time) string {
	base := path.Base(k.pub.ExportKey)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return k.pub.HistoryPrefix + stem + "-" + t.UTC().Format(backupTimeLayout) + ext
}
