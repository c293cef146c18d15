package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pimops/pigman/internal/blob"
	"github.com/pimops/pigman/internal/config"
	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/tabular"
	"github.com/pimops/pigman/internal/transfer"
)

// Exporter provides the local side of the export: the dataset without its
// internal Status column, ordered by Item.
type Exporter interface {
	ExportTable(ctx context.Context) (tabular.Table, error)
}

// Result summarizes one publish run.
type Result struct {
	Records       int      `json:"records"`
	Categories    int      `json:"categories"`
	VendorMerged  bool     `json:"vendor_merged"`
	BackupCreated bool     `json:"backup_created"`
	BackupKey     string   `json:"backup_key,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Pipeline publishes the merged export. One instance serves one session;
// runs are not concurrent with each other.
type Pipeline struct {
	store    blob.Store
	transfer transfer.Client
	keys     blob.Keys

	vendorFile string
	exportFile string

	log *slog.Logger
	now func() time.Time
}

// New wires a pipeline. The transfer client may be nil on deployments
// without FTP credentials; Run refuses to start in that case.
func New(store blob.Store, tc transfer.Client, keys blob.Keys, cfg config.PublishConfig, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		store:      store,
		transfer:   tc,
		keys:       keys,
		vendorFile: cfg.VendorFile,
		exportFile: cfg.ExportFile,
		log:        log,
		now:        time.Now,
	}
}

// Run executes the publish steps in order: read local data, fetch and merge
// the vendor block, back up the previous export, write the new export to
// blob storage, then transfer it to the vendor endpoint.
//
// Vendor fetch problems and backup problems degrade to warnings. A transfer
// failure after the blob write is fatal and reported as a partial publish:
// the stored export is already updated while the vendor copy is not, and
// the caller must know.
func (p *Pipeline) Run(ctx context.Context, src Exporter) (Result, error) {
	var res Result

	if p.transfer == nil {
		return res, errs.New(errs.KindInput, "publish.Run", "transfer endpoint is not configured")
	}

	p.log.InfoContext(ctx, "publish: reading session data")
	local, err := src.ExportTable(ctx)
	if err != nil {
		return res, err
	}

	merged := local
	if vendor, ok := p.fetchVendor(ctx, &res); ok {
		merged = MergeByItem(local, vendor)
		res.VendorMerged = true
	}

	p.log.InfoContext(ctx, "publish: encoding export",
		slog.Int("rows", merged.RowCount()), slog.Int("columns", len(merged.Columns)))
	data, err := tabular.EncodeExcel(merged)
	if err != nil {
		return res, errs.Wrap(errs.KindUnknown, "publish.Run", err)
	}

	p.backupExisting(ctx, &res)

	exportKey := p.keys.Export()
	p.log.InfoContext(ctx, "publish: uploading export", slog.String("key", exportKey))
	if err := p.store.Upload(ctx, exportKey, data); err != nil {
		return res, err
	}

	p.log.InfoContext(ctx, "publish: transferring export", slog.String("name", p.exportFile))
	if err := p.transfer.Store(ctx, p.exportFile, data); err != nil {
		// The blob copy is already updated; the vendor endpoint is not.
		return res, errs.Wrap(errs.KindPartialPublish, "publish.Run", err)
	}

	res.Records = merged.RowCount()
	res.Categories = merged.DistinctCount(schema.FieldCategory)
	p.log.InfoContext(ctx, "publish: complete",
		slog.Int("records", res.Records),
		slog.Int("categories", res.Categories),
		slog.Bool("vendor_merged", res.VendorMerged))
	return res, nil
}

// fetchVendor downloads and narrows the vendor workbook. Every failure mode
// degrades to a warning and a local-only export.
func (p *Pipeline) fetchVendor(ctx context.Context, res *Result) (tabular.Table, bool) {
	p.log.InfoContext(ctx, "publish: fetching vendor data", slog.String("name", p.vendorFile))

	data, err := p.transfer.Fetch(ctx, p.vendorFile)
	if err != nil {
		p.warn(ctx, res, fmt.Sprintf("Could not download vendor data: %v. Continuing with local data only.", err))
		return tabular.Table{}, false
	}

	full, err := tabular.DecodeExcel(data)
	if err != nil {
		p.warn(ctx, res, fmt.Sprintf("Could not read vendor data: %v. Continuing with local data only.", err))
		return tabular.Table{}, false
	}

	vendor, ok := ExtractVendor(full)
	if !ok {
		p.warn(ctx, res, "Vendor file does not contain the expected columns AT-BO. Using local data only.")
		return tabular.Table{}, false
	}
	if vendor.Empty() {
		p.log.InfoContext(ctx, "publish: vendor file has no rows, using local data only")
		return tabular.Table{}, false
	}
	return vendor, true
}

// backupExisting snapshots the current export to a timestamped history key.
// Best effort: a missing export or a failed copy is a warning, never fatal.
func (p *Pipeline) backupExisting(ctx context.Context, res *Result) {
	existing, err := p.store.Download(ctx, p.keys.Export())
	if err != nil {
		p.warn(ctx, res, fmt.Sprintf("No existing export found or backup failed: %v", err))
		return
	}

	backupKey := p.keys.History(p.now())
	if err := p.store.Upload(ctx, backupKey, existing); err != nil {
		p.warn(ctx, res, fmt.Sprintf("No existing export found or backup failed: %v", err))
		return
	}

	res.BackupCreated = true
	res.BackupKey = backupKey
	p.log.InfoContext(ctx, "publish: backup created", slog.String("key", backupKey))
}

func (p *Pipeline) warn(ctx context.Context, res *Result, msg string) {
	res.Warnings = append(res.Warnings, msg)
	p.log.WarnContext(ctx, "publish: "+msg)
}
