package updater

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		current, latest string
		want            int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.2.0", "v1.10.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0-rc.1", "1.0.0", -1},
	}

	for _, tt := range tests {
		got, err := CompareVersions(tt.current, tt.latest)
		if err != nil {
			t.Errorf("CompareVersions(%s, %s): %v", tt.current, tt.latest, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CompareVersions(%s, %s) = %d, want %d", tt.current, tt.latest, got, tt.want)
		}
	}

	if _, err := CompareVersions("dev", "1.0.0"); err == nil {
		t.Error("non-semver current version should error")
	}
}

func TestIsUpdateAvailable(t *testing.T) {
	avail, err := IsUpdateAvailable("1.0.0", "1.1.0")
	if err != nil {
		t.Fatal(err)
	}
	if !avail {
		t.Error("1.1.0 should be an update over 1.0.0")
	}

	avail, err = IsUpdateAvailable("1.1.0", "1.1.0")
	if err != nil {
		t.Fatal(err)
	}
	if avail {
		t.Error("equal versions should not report an update")
	}
}

func TestVersionCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	// First run: no cache file.
	cache, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache (empty): %v", err)
	}
	if cache != nil {
		t.Fatal("expected nil cache before first save")
	}

	want := &VersionCache{
		LatestVersion:   "1.2.0",
		CurrentVersion:  "1.0.0",
		CheckedAt:       time.Now().UTC().Truncate(time.Second),
		UpdateAvailable: true,
	}
	if err := SaveCache(dir, want); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	got, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if got.LatestVersion != want.LatestVersion || got.CurrentVersion != want.CurrentVersion {
		t.Errorf("cache = %+v, want %+v", got, want)
	}
	if !got.UpdateAvailable {
		t.Error("UpdateAvailable lost on round trip")
	}
	if !got.CheckedAt.Equal(want.CheckedAt) {
		t.Errorf("CheckedAt = %v, want %v", got.CheckedAt, want.CheckedAt)
	}
}

func TestSaveCacheCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	if err := SaveCache(dir, &VersionCache{CheckedAt: time.Now()}); err != nil {
		t.Fatalf("SaveCache into missing dir: %v", err)
	}
}

func TestCacheStale(t *testing.T) {
	var missing *VersionCache
	if !missing.Stale(DefaultCacheMaxAge) {
		t.Error("nil cache must be stale")
	}

	fresh := &VersionCache{CheckedAt: time.Now().Add(-time.Hour)}
	if fresh.Stale(DefaultCacheMaxAge) {
		t.Error("an hour-old cache is not stale at the 24h default")
	}

	old := &VersionCache{CheckedAt: time.Now().Add(-25 * time.Hour)}
	if !old.Stale(DefaultCacheMaxAge) {
		t.Error("a 25h-old cache is stale at the 24h default")
	}
}

func TestSaveCacheLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	if err := SaveCache(dir, &VersionCache{CheckedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "version-check.json" {
		t.Errorf("unexpected cache dir contents: %v", entries)
	}
}

func TestCheckAndPrintBanner(t *testing.T) {
	dir := t.TempDir()
	if err := SaveCache(dir, &VersionCache{
		LatestVersion:   "1.2.0",
		CurrentVersion:  "1.0.0",
		CheckedAt:       time.Now(),
		UpdateAvailable: true,
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	New("1.0.0").CheckAndPrintBanner(&buf, dir)
	out := buf.String()
	if !strings.Contains(out, "1.0.0") || !strings.Contains(out, "1.2.0") {
		t.Errorf("banner missing versions:\n%s", out)
	}

	// A fresh cache with no update prints nothing.
	if err := SaveCache(dir, &VersionCache{CheckedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	New("1.0.0").CheckAndPrintBanner(&buf, dir)
	if buf.Len() != 0 {
		t.Errorf("unexpected banner output:\n%s", buf.String())
	}
}

func TestSelectAssetForPlatform(t *testing.T) {
	expected := ArchiveName()
	assets := []Asset{
		{Name: "checksums.txt"},
		{Name: "occm_windows_amd64.zip"},
		{Name: expected},
	}

	asset, err := SelectAssetForPlatform(assets)
	if err != nil {
		t.Fatalf("SelectAssetForPlatform: %v", err)
	}
	if asset.Name != expected {
		t.Errorf("selected %s, want %s", asset.Name, expected)
	}
}

func TestSelectAssetForPlatformFallback(t *testing.T) {
	name := fmt.Sprintf("occm_1.2.0_%s_%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	assets := []Asset{
		{Name: "checksums.txt"},
		{Name: name},
	}

	asset, err := SelectAssetForPlatform(assets)
	if err != nil {
		t.Fatalf("SelectAssetForPlatform: %v", err)
	}
	if asset.Name != name {
		t.Errorf("selected %s, want %s", asset.Name, name)
	}
}

func TestSelectAssetForPlatformMissing(t *testing.T) {
	if _, err := SelectAssetForPlatform([]Asset{{Name: "checksums.txt"}}); err == nil {
		t.Error("expected error when no asset matches the platform")
	}
}

// buildBinaryArchive packs fake binary bytes into a tar.gz under name.
func buildBinaryArchive(t *testing.T, name string, body []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	entries := []struct {
		name string
		body []byte
	}{
		{"LICENSE", []byte("license text")},
		{name, body},
	}
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0755, Size: int64(len(e.body))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write(e.body); err != nil {
			t.Fatal(err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBinary(t *testing.T) {
	binary := []byte("#!/bin/sh\nexit 0\n")
	archive := buildBinaryArchive(t, "occm", binary)

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "occm_test.tar.gz")
	if err := os.WriteFile(archivePath, archive, 0644); err != nil {
		t.Fatal(err)
	}

	extracted, err := ExtractBinary(archivePath, dir)
	if err != nil {
		t.Fatalf("ExtractBinary: %v", err)
	}

	got, err := os.ReadFile(extracted)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, binary) {
		t.Error("extracted binary content differs")
	}

	info, err := os.Stat(extracted)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Error("extracted binary is not executable")
	}
}

func TestExtractBinaryNotFound(t *testing.T) {
	archive := buildBinaryArchive(t, "some-other-tool", []byte("x"))

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "occm_test.tar.gz")
	if err := os.WriteFile(archivePath, archive, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ExtractBinary(archivePath, dir); err == nil {
		t.Error("expected error when archive has no matching binary")
	}
}

func TestDownloadAssetAndVerifyChecksum(t *testing.T) {
	archive := buildBinaryArchive(t, "occm", []byte("binary bytes"))
	sum := sha256.Sum256(archive)
	archiveName := ArchiveName()
	checksums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), archiveName)

	mux := http.NewServeMux()
	mux.HandleFunc("/archive", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/checksums", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(checksums))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	release := &Release{
		Version: "v1.2.0",
		Assets: []Asset{
			{Name: archiveName, DownloadURL: srv.URL + "/archive"},
			{Name: "checksums.txt", DownloadURL: srv.URL + "/checksums"},
		},
	}

	u := New("1.0.0", WithHTTPClient(srv.Client()))
	dir := t.TempDir()

	archivePath, err := u.DownloadAsset(release, dir)
	if err != nil {
		t.Fatalf("DownloadAsset: %v", err)
	}
	if filepath.Base(archivePath) != archiveName {
		t.Errorf("downloaded as %s, want %s", filepath.Base(archivePath), archiveName)
	}

	if err := u.VerifyChecksum(release, archivePath); err != nil {
		t.Errorf("VerifyChecksum: %v", err)
	}
}

func TestVerifyChecksumMismatch(t *testing.T) {
	archiveName := ArchiveName()
	checksums := fmt.Sprintf("%s  %s\n", "deadbeef", archiveName)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(checksums))
	}))
	defer srv.Close()

	archivePath := filepath.Join(t.TempDir(), archiveName)
	if err := os.WriteFile(archivePath, []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}

	release := &Release{
		Assets: []Asset{{Name: "checksums.txt", DownloadURL: srv.URL}},
	}

	u := New("1.0.0", WithHTTPClient(srv.Client()))
	if err := u.VerifyChecksum(release, archivePath); err == nil {
		t.Error("a tampered archive must fail checksum verification")
	}
}

func TestVerifyChecksumMissingManifest(t *testing.T) {
	u := New("1.0.0")
	release := &Release{Assets: []Asset{{Name: "occm_linux_amd64.tar.gz"}}}
	if err := u.VerifyChecksum(release, "whatever.tar.gz"); err == nil {
		t.Error("a release without checksums.txt must fail verification")
	}
}
