package hathitrust

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
)

const (
	// DefaultFilesURL is the HathiTrust directory the hathifiles are published in.
	DefaultFilesURL = "https://www.hathitrust.org/files/hathifiles/"

	// FileListName lists every hathifile currently available.
	FileListName = "hathi_file_list.json"

	DefaultCacheDir = "~/.cache/htpubsum"
)

// ErrNoFullFile is returned when the file list has no full hathifile.
var ErrNoFullFile = errors.New("no full hathifile listed")

// FileInfo is one entry of the hathifile list.
type FileInfo struct {
	Filename string `json:"filename"`
	Full     bool   `json:"full"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
	URL      string `json:"url"`
}

// DownloadConfig configures hathifile downloading
type DownloadConfig struct {
	CacheDir string
	BaseURL  string
	Force    bool
	Progress bool
}

// Downloader fetches hathifiles and caches them on disk
type Downloader struct {
	config DownloadConfig
	client *http.Client
}

// NewDownloader creates a new hathifile downloader
func NewDownloader(config DownloadConfig) *Downloader {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultFilesURL
	}
	if !strings.HasSuffix(config.BaseURL, "/") {
		config.BaseURL += "/"
	}

	// Expand ~ to home directory
	if strings.HasPrefix(config.CacheDir, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}

	return &Downloader{
		config: config,
		client: &http.Client{},
	}
}

// ListFiles fetches the list of available hathifiles.
func (d *Downloader) ListFiles(ctx context.Context) ([]FileInfo, error) {
	resp, err := d.get(ctx, d.config.BaseURL+FileListName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file list: %w", err)
	}
	defer resp.Body.Close()

	var files []FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to parse file list: %w", err)
	}
	return files, nil
}

// LatestFull returns the newest full hathifile in files. Hathifile names
// carry the dump date, so the newest file has the greatest name.
func LatestFull(files []FileInfo) (FileInfo, error) {
	var full []FileInfo
	for _, f := range files {
		if f.Full {
			full = append(full, f)
		}
	}
	if len(full) == 0 {
		return FileInfo{}, ErrNoFullFile
	}
	return slices.MaxFunc(full, func(a, b FileInfo) int {
		return strings.Compare(a.Filename, b.Filename)
	}), nil
}

// CachePath returns the path where a hathifile would be cached
func (d *Downloader) CachePath(filename string) string {
	return filepath.Join(d.config.CacheDir, filename)
}

// Download fetches a hathifile into the cache and returns its local path.
// A cached copy is reused unless Force is set.
func (d *Downloader) Download(ctx context.Context, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid hathifile name %q", filename)
	}

	if err := os.MkdirAll(d.config.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := d.CachePath(filename)
	if !d.config.Force {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Info("Using cached hathifile", "path", cachedPath)
			return cachedPath, nil
		}
	}

	slog.Info("Downloading hathifile", "file", filename)
	if err := d.downloadFile(ctx, d.config.BaseURL+filename, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download hathifile: %w", err)
	}

	slog.Info("Hathifile downloaded", "path", cachedPath)
	return cachedPath, nil
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}
	return resp, nil
}

// downloadFile streams url into destPath through a temporary file
func (d *Downloader) downloadFile(ctx context.Context, url, destPath string) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tempPath := destPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	var body io.Reader = resp.Body
	if d.config.Progress && resp.ContentLength > 0 {
		bar := pb.Full.Start64(resp.ContentLength)
		bar.Set("prefix", "Downloading ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
		body = bar.NewProxyReader(resp.Body)
	}

	n, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("download failed: %w", err)
	}
	slog.Debug("Download complete", "bytes", humanize.Bytes(uint64(n)))

	// Move temp file to final location
	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file: %w", err)
	}

	return nil
}
