// Package ingest resolves the run's input identity into a readable local
// file: local uploads are verified on disk, cloud links are downloaded with
// the extension inferred from the response content type.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/common"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// IsCloudLink reports whether the input names a downloadable URL rather
// than a local path.
func IsCloudLink(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Fetcher is the file/byte source collaborator.
type Fetcher struct {
	client *http.Client
	tmpDir string
	log    *slog.Logger
}

func NewFetcher(timeout time.Duration, tmpDir string, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		tmpDir: tmpDir,
		log:    logger,
	}
}

// Resolve populates FilePath/FileType/OriginalName on the state, downloading
// the cloud link when needed. A state that already carries a usable FilePath
// is verified, not re-fetched.
func (f *Fetcher) Resolve(ctx context.Context, st *state.State) error {
	if st.FilePath != "" {
		if _, err := os.Stat(st.FilePath); err != nil {
			return fmt.Errorf("%w: %s", common.ErrNotFound, st.FilePath)
		}
		if st.FileType == "" {
			st.FileType = constants.NormalizeExt(filepath.Ext(st.FilePath))
		}
		if st.OriginalName == "" {
			st.OriginalName = filepath.Base(st.FilePath)
		}
		return nil
	}

	switch {
	case st.Source == state.SourceLocal && st.OriginalName != "":
		if _, err := os.Stat(st.OriginalName); err != nil {
			return fmt.Errorf("%w: %s", common.ErrNotFound, st.OriginalName)
		}
		st.FilePath = st.OriginalName
		st.FileType = constants.NormalizeExt(filepath.Ext(st.OriginalName))
		return nil

	case st.Source == state.SourceCloud && st.CloudLink != "":
		return f.download(ctx, st)

	default:
		return fmt.Errorf("no valid local file or cloud link provided")
	}
}

func (f *Fetcher) download(ctx context.Context, st *state.State) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.CloudLink, nil)
	if err != nil {
		return common.WrapError(err, fmt.Sprintf("cloud download %s", st.CloudLink))
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return common.WrapError(err, fmt.Sprintf("cloud download %s", st.CloudLink))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download from cloud: %s (status %d)", st.CloudLink, resp.StatusCode)
	}

	ext := extFromContentType(resp.Header.Get("Content-Type"))
	tmp, err := os.CreateTemp(f.tmpDir, "cloud_input-*"+ext)
	if err != nil {
		return fmt.Errorf("cloud download %s: temp file: %w", st.CloudLink, err)
	}
	defer tmp.Close()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fmt.Errorf("cloud download %s: write: %w", st.CloudLink, err)
	}

	st.FilePath = tmp.Name()
	st.FileType = constants.NormalizeExt(ext)
	st.OriginalName = filepath.Base(tmp.Name())

	f.log.Info("ingest.cloud_download.ok",
		"url", st.CloudLink,
		"path", st.FilePath,
		"bytes", n,
		"file_type", st.FileType,
	)
	return nil
}

// knownContentTypes covers the formats the pipeline accepts; the system mime
// registry is only a fallback since its table varies by host.
var knownContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"text/csv":        ".csv",
	"application/csv": ".csv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/vnd.ms-excel":                                          ".xls",
	"image/png":                                                         ".png",
	"image/jpeg":                                                        ".jpg",
}

// extFromContentType maps the declared content type to an extension,
// defaulting to .pdf when the type is unknown.
func extFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	if ext, ok := knownContentTypes[ct]; ok {
		return ext
	}
	if ct != "" {
		if exts, err := mime.ExtensionsByType(ct); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ".pdf"
}
