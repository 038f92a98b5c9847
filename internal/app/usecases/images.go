package usecases

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"podsync/internal/logging"
)

// maxImageBytes caps a single download; remote previews are small and
// anything larger is garbage.
const maxImageBytes = 20 << 20

// FetchedImage is one downloaded asset ready to be attached.
type FetchedImage struct {
	Hash     string
	FileName string
	RelPath  string
	Mime     string
}

// ImageFetcher downloads remote variant images into the local media
// directory. Files are named after the url hash so a re-download of the
// same url overwrites rather than duplicates.
type ImageFetcher struct {
	client *http.Client
	dir    string
	logger logging.Logger
}

func NewImageFetcher(dir string, logger logging.Logger) *ImageFetcher {
	return &ImageFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		dir:    dir,
		logger: logger,
	}
}

// hashURL is the image identity used for deduplication; two attachments
// of the same source url always collide.
func hashURL(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// Fetch downloads the image and writes it under the media directory.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) (*FetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	hash := hashURL(rawURL)
	ext, mimeType := guessType(rawURL, resp.Header.Get("Content-Type"))
	fileName := fmt.Sprintf("pod_%s%s", hash, ext)

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, fileName), body, 0o644); err != nil {
		return nil, fmt.Errorf("write image file: %w", err)
	}

	f.logger.Debugw("image stored", "url", rawURL, "file", fileName, "bytes", len(body))

	return &FetchedImage{
		Hash:     hash,
		FileName: fileName,
		RelPath:  path.Join(filepath.Base(f.dir), fileName),
		Mime:     mimeType,
	}, nil
}

// guessType derives the file extension and mime type from the url path
// first, then the response header, then a jpeg fallback.
func guessType(rawURL, contentType string) (string, string) {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); validImageExt(ext) {
			return ext, mime.TypeByExtension(ext)
		}
	}

	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
				return exts[0], mediaType
			}
		}
	}

	return ".jpg", "image/jpeg"
}

func validImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
