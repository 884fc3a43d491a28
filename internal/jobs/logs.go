package jobs

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"context"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
	"github.com/Skotchmaster/pizza_shop/internal/store"
)

const archiveSuffix = ".gz.b64"

// LogArchiver compresses finished log files in the log collection and
// removes the originals. The current day's file is still being appended to
// and is left alone. Archived entries keep a timestamped key with the
// archive suffix so they are skipped on later runs.
type LogArchiver struct {
	Store *store.Store

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (j *LogArchiver) Name() string { return "logsArchiver" }

func (j *LogArchiver) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("job", j.Name())

	keys, err := j.Store.List(repo.LogsCollection)
	if err != nil {
		return err
	}

	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	today := now.UTC().Format("2006-01-02")

	archived := 0
	for _, key := range keys {
		if strings.HasSuffix(key, archiveSuffix) || key == today {
			continue
		}

		content, err := j.Store.Read(repo.LogsCollection, key)
		if err != nil {
			l.Error("log_read_failed", "key", key, "error", err)
			continue
		}

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(content); err != nil {
			l.Error("log_compress_failed", "key", key, "error", err)
			continue
		}
		if err := zw.Close(); err != nil {
			l.Error("log_compress_failed", "key", key, "error", err)
			continue
		}

		target := fmt.Sprintf("%s-%d%s", key, now.UnixMilli(), archiveSuffix)
		encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
		if err := j.Store.CreateOrUpdate(repo.LogsCollection, target, []byte(encoded)); err != nil {
			l.Error("log_archive_write_failed", "key", key, "error", err)
			continue
		}
		if err := j.Store.Delete(repo.LogsCollection, key); err != nil {
			l.Error("log_delete_failed", "key", key, "error", err)
			continue
		}
		archived++
		l.Debug("log_archived", "key", key, "target", target)
	}
	l.Info("log_sweep", "archived", archived)
	return nil
}
