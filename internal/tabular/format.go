package tabular

import (
	"path"
	"strings"
)

// FileFormat identifies how a stored file is encoded. The format is derived
// once from the file extension and passed around explicitly; nothing in the
// application re-sniffs content.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatCSV
	FormatParquet
	FormatExcel
)

func (f FileFormat) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	case FormatExcel:
		return "excel"
	default:
		return "unknown"
	}
}

// formatByExt is the extension lookup table. Only the three formats the
// container actually holds are recognized; anything else is FormatUnknown.
var formatByExt = map[string]FileFormat{
	".csv":     FormatCSV,
	".parquet": FormatParquet,
	".xlsx":    FormatExcel,
}

// FormatForPath derives the format of a file from its extension,
// case-insensitively. Works on blob keys as well as local paths.
func FormatForPath(p string) FileFormat {
	ext := strings.ToLower(path.Ext(p))
	return formatByExt[ext]
}

// KnownExtensions returns the recognized file extensions, for listing
// filters.
func KnownExtensions() []string {
	return []string{".csv", ".parquet", ".xlsx"}
}
