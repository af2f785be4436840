// Package archive stores exported report snapshots in S3-compatible object
// storage and hands out time-limited download links.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DownloadLinkTTL is how long presigned report links stay valid.
const DownloadLinkTTL = 15 * time.Minute

// Archive is the object store used for report exports.
type Archive interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// NewReportKey builds a unique object key for a report of the given kind
// and period, e.g. reports/staff/2024-03/<uuid>.csv.
func NewReportKey(kind, period string) string {
	return fmt.Sprintf("reports/%s/%s/%v.csv", kind, period, uuid.New())
}
