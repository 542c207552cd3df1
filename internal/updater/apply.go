package updater

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/occm-labs/occm/internal/branding"
)

// DownloadAsset downloads the platform asset for release into destDir and
// returns the archive path.
func (u *Updater) DownloadAsset(release *Release, destDir string) (string, error) {
	asset, err := SelectAssetForPlatform(release.Assets)
	if err != nil {
		return "", err
	}

	destPath := filepath.Join(destDir, asset.Name)

	req, err := http.NewRequest(http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-updater")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", asset.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing download: %w", err)
	}

	return destPath, nil
}

// VerifyChecksum downloads checksums.txt from the release and verifies the
// archive against its expected sha256.
func (u *Updater) VerifyChecksum(release *Release, archivePath string) error {
	var checksumAsset *Asset
	for i := range release.Assets {
		if release.Assets[i].Name == "checksums.txt" {
			checksumAsset = &release.Assets[i]
			break
		}
	}
	if checksumAsset == nil {
		return fmt.Errorf("checksums.txt not found in release assets")
	}

	req, err := http.NewRequest(http.MethodGet, checksumAsset.DownloadURL, nil)
	if err != nil {
		return fmt.Errorf("creating checksum request: %w", err)
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-updater")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading checksums: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("checksums download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading checksums: %w", err)
	}

	// Each line of checksums.txt is "sha256  filename".
	archiveName := filepath.Base(archivePath)
	expectedHash := ""
	for _, line := range strings.Split(string(body), "\n") {
		parts := strings.Fields(line)
		if len(parts) == 2 && parts[1] == archiveName {
			expectedHash = parts[0]
			break
		}
	}
	if expectedHash == "" {
		return fmt.Errorf("no checksum found for %s in checksums.txt", archiveName)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}

	actualHash := hex.EncodeToString(h.Sum(nil))
	if actualHash != expectedHash {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedHash, actualHash)
	}

	return nil
}

// ExtractBinary extracts the CLI binary from a tar.gz archive and returns
// its path.
func ExtractBinary(archivePath, destDir string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading tar entry: %w", err)
		}

		if filepath.Base(hdr.Name) != branding.CLIName() {
			continue
		}

		destPath := filepath.Join(destDir, branding.CLIName())
		out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
		if err != nil {
			return "", fmt.Errorf("creating binary file: %w", err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return "", fmt.Errorf("extracting binary: %w", err)
		}
		out.Close()
		return destPath, nil
	}

	return "", fmt.Errorf("%s binary not found in archive", branding.CLIName())
}

// ReplaceBinary safely replaces the current binary with a new one. It
// creates a backup, performs the swap, verifies the new binary, and rolls
// back to the backup on failure.
func ReplaceBinary(newPath, currentPath string) error {
	if runtime.GOOS == "windows" {
		return fmt.Errorf("self-update is not supported on Windows. Please download the latest version manually from https://github.com/%s/releases", branding.GitHubRepo())
	}

	info, err := os.Stat(currentPath)
	if err != nil {
		return fmt.Errorf("stat current binary: %w", err)
	}
	origPerm := info.Mode().Perm()

	backupPath := currentPath + ".backup"

	if err := rename(currentPath, backupPath); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	if err := rename(newPath, currentPath); err != nil {
		rollback(backupPath, currentPath)
		return fmt.Errorf("installing new binary: %w", err)
	}

	os.Chmod(currentPath, origPerm)

	if err := verifyBinary(currentPath); err != nil {
		rollback(backupPath, currentPath)
		return fmt.Errorf("verification failed, rolled back: %w", err)
	}

	os.Remove(backupPath)
	return nil
}

// rename moves src to dst, falling back to copy+remove across filesystems.
func rename(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func rollback(backupPath, currentPath string) {
	_ = rename(backupPath, currentPath)
}

// verifyBinary executes the binary with "version --short" and requires a
// clean exit within five seconds.
func verifyBinary(binaryPath string) error {
	cmd := exec.Command(binaryPath, "version", "--short")

	done := make(chan error, 1)
	go func() { done <- cmd.Run() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("new binary exited with error: %w", err)
		}
		return nil
	case <-time.After(5 * time.Second):
		cmd.Process.Kill()
		return fmt.Errorf("new binary timed out after 5 seconds")
	}
}
