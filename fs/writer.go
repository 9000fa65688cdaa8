// Package fs writes analysis reports to a directory tree.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/pagegrade"
)

// ReportPath converts a page URL to a relative report file path rooted at
// the host. Example: https://example.com/docs/api → example.com/docs/api.json
func ReportPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", pagegrade.Errorf(pagegrade.EINVALID, "URL %q has no host", rawURL)
	}
	host := strings.ReplaceAll(strings.ToLower(u.Host), ":", "_")
	// The host becomes a directory name and must not climb out of the base.
	if host == "." || host == ".." || strings.ContainsAny(host, `/\`) {
		return "", pagegrade.Errorf(pagegrade.EINVALID, "URL %q has an unusable host", rawURL)
	}

	// Cleaning against the root keeps ".." segments inside the host directory.
	p := path.Clean("/" + u.Path)
	switch {
	case p == "/":
		p = "/index"
	case strings.HasSuffix(u.Path, "/"):
		p += "/index"
	}

	return filepath.FromSlash(host + p + ".json"), nil
}

// Ensure Writer implements pagegrade.ReportExporter at compile time.
var _ pagegrade.ReportExporter = (*Writer)(nil)

// Writer writes reports as indented JSON files under a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// ExportReport writes the report to disk and returns the file path.
// The file is replaced atomically, so readers never see a partial report.
func (w *Writer) ExportReport(ctx context.Context, report *pagegrade.Report) (string, error) {
	if err := report.Validate(); err != nil {
		return "", err
	}

	relPath, err := ReportPath(report.URL)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}

	return fullPath, nil
}
