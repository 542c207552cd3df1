package collection

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/occm-labs/occm/internal/branding"
)

// Fetcher downloads and extracts collection tarballs.
type Fetcher struct {
	httpClient *http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot downloads the configured collection tarball into a fresh
// temporary directory and returns the extracted tree. The caller must call
// Close on the returned snapshot; the temp directory also carries the
// process-unique suffix os.MkdirTemp provides, so concurrent runs never
// collide.
func (f *Fetcher) Snapshot(ctx context.Context) (*Snapshot, error) {
	return f.SnapshotURL(ctx, ArchiveURL())
}

// SnapshotURL is Snapshot with an explicit archive URL.
func (f *Fetcher) SnapshotURL(ctx context.Context, url string) (*Snapshot, error) {
	tempDir, err := os.MkdirTemp("", branding.CLIName()+"-collection-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	if err := f.fetch(ctx, url, tempDir); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	return &Snapshot{Root: contentRoot(tempDir), tempDir: tempDir}, nil
}

// fetch streams the tarball at url through gzip+tar into destDir without
// persisting the intermediate archive.
func (f *Fetcher) fetch(ctx context.Context, url, destDir string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-fetcher")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("collection download returned status %d for %s", resp.StatusCode, url)
	}

	if err := extractTarGz(resp.Body, destDir); err != nil {
		return fmt.Errorf("extracting collection: %w", err)
	}
	return nil
}

// extractTarGz unpacks a gzip-compressed tar stream into destDir. Entry
// names are joined with securejoin so absolute paths and ".." components can
// never escape destDir; symlinks and other special entries are skipped.
func extractTarGz(r io.Reader, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target, err := securejoin.SecureJoin(destDir, hdr.Name)
		if err != nil {
			return fmt.Errorf("resolving tar entry %q: %w", hdr.Name, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating parent of %s: %w", target, err)
			}
			if err := writeEntry(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// Symlinks, devices, and other special entries are not part of
			// a collection's contract.
		}
	}

	return nil
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}
