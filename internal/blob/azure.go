package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/pimops/pigman/internal/errs"
)

// Azure is the production Store: one shared container accessed with a SAS
// token. Every operation runs under its own deadline so a stalled transfer
// cannot hang the session that issued it.
type Azure struct {
	client    *azblob.Client
	container string
	opTimeout time.Duration
}

// NewAzure builds a client for the container from the account URL and a SAS
// token. The token is appended to the service URL, which is the only
// credential form the shared container supports.
func NewAzure(accountURL, sasToken, container string, opTimeout time.Duration) (*Azure, error) {
	serviceURL := accountURL
	if sasToken != "" {
		serviceURL = accountURL + "?" + strings.TrimPrefix(sasToken, "?")
	}
	client, err := azblob.NewClientWithNoCredential(serviceURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuth, "blob.NewAzure", err)
	}
	if opTimeout <= 0 {
		opTimeout = 2 * time.Minute
	}
	return &Azure{client: client, container: container, opTimeout: opTimeout}, nil
}

func (a *Azure) Upload(ctx context.Context, key string, data []byte) error {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, nil); err != nil {
		return errs.Wrap(errs.KindRemoteIO, "blob.Upload", fmt.Errorf("upload %s: %w", key, err))
	}
	return nil
}

func (a *Azure) Download(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		kind := errs.KindRemoteIO
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			kind = errs.KindNotFound
		}
		return nil, errs.Wrap(kind, "blob.Download", fmt.Errorf("download %s: %w", key, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindRemoteIO, "blob.Download", fmt.Errorf("read %s: %w", key, err))
	}
	return data, nil
}

func (a *Azure) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	blobClient := a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(key)
	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, errs.Wrap(errs.KindRemoteIO, "blob.Exists", fmt.Errorf("stat %s: %w", key, err))
	}
	return true, nil
}

func (a *Azure) List(ctx context.Context, prefix string) ([]Object, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	pager := a.client.NewListBlobsFlatPager(a.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var objects []Object
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errs.Wrap(errs.KindRemoteIO, "blob.List", fmt.Errorf("list %s: %w", prefix, err))
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			obj := Object{Key: *item.Name}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					obj.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					obj.Modified = *item.Properties.LastModified
				}
			}
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

func (a *Azure) Delete(ctx context.Context, key string) error {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		kind := errs.KindRemoteIO
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			kind = errs.KindNotFound
		}
		return errs.Wrap(kind, "blob.Delete", fmt.Errorf("delete %s: %w", key, err))
	}
	return nil
}

func (a *Azure) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.opTimeout)
}
