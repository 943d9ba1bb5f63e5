package storage

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/domain/mimetypes"
	"chat-relay/errors"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffSize is how much of an upload is read before deciding its type.
const sniffSize = 3072

// DiskStore keeps attachments as flat files named by a random id and the detected extension.
type DiskStore struct {
	log     *slog.Logger
	dir     string
	baseURL string
	maxSize int64
	allowed []mimetypes.MIME
}

func NewDiskStore(log *slog.Logger, dir, baseURL string, maxSize int64, allowed []mimetypes.MIME) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("attachment directory %s: %w", dir, err)
	}
	return &DiskStore{
		log:     log,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
		allowed: allowed,
	}, nil
}

// Save stores r and returns the File payload pointing at it.
// The content type is sniffed from the bytes, never trusted from the client.
func (d *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (domain.File, error) {
	if err := ctx.Err(); err != nil {
		return domain.File{}, err
	}
	limited := io.LimitReader(r, d.maxSize+1)

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(limited, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return domain.File{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return domain.File{}, fmt.Errorf("%w: empty attachment", errors.ErrInvalidRequest)
	}

	detected := mimetype.Detect(head)
	if mt := mimetypes.Parse(detected.String()); !mt.AllowedBy(d.allowed) {
		return domain.File{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedType, mt)
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return domain.File{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	written, err := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), limited))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return domain.File{}, fmt.Errorf("write upload: %w", err)
	}
	if written > d.maxSize {
		return domain.File{}, fmt.Errorf("%w: limit is %d bytes", errors.ErrAttachmentTooLarge, d.maxSize)
	}

	name := uuid.NewString() + detected.Extension()
	if err = os.Rename(tmp.Name(), filepath.Join(d.dir, name)); err != nil {
		return domain.File{}, err
	}
	d.log.Debug("Attachment stored", "name", name, "mime", detected.String(), "size", written)

	return domain.File{
		Filename: cleanFilename(filename, name),
		URL:      d.baseURL + "/files/" + name,
	}, nil
}

// Path resolves a stored attachment name. Anything that is not a plain stored name is rejected.
func (d *DiskStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: attachment %q", errors.ErrInvalidRequest, name)
	}
	path := filepath.Join(d.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: attachment %q", errors.ErrAttachmentNotFound, name)
	}
	return path, nil
}

func cleanFilename(filename, fallback string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	return base
}
