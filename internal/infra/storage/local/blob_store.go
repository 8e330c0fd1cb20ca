package localstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"drag-drop-game/internal/repository"
)

// URLPrefix 是上传文件对外暴露的路径前缀
const URLPrefix = "/uploads/"

// LocalBlobStore 把上传文件保存在本地目录，引用形如 "/uploads/<uuid>_<原文件名>"
type LocalBlobStore struct {
	dir string
}

// NewLocalBlobStore 创建目录（若不存在）并返回实例
func NewLocalBlobStore(dir string) (*LocalBlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalBlobStore{dir: dir}, nil
}

// Dir 返回上传目录，用于静态文件服务
func (s *LocalBlobStore) Dir() string {
	return s.dir
}

// Upload 写入文件并返回引用
func (s *LocalBlobStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("localstorage: create %s: %w", path, err)
	}
	written, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("localstorage: write %s: %w", path, err)
	}
	if written == 0 {
		_ = os.Remove(path)
		return "", fmt.Errorf("localstorage: file %q is empty", filename)
	}

	logrus.WithFields(logrus.Fields{"blob": name, "bytes": written}).Debug("Blob uploaded")
	return URLPrefix + name, nil
}

// Delete 删除引用对应的文件，文件不存在时视为成功
func (s *LocalBlobStore) Delete(ctx context.Context, ref string) error {
	name := refToName(ref)
	if name == "" {
		return nil
	}
	path := filepath.Join(s.dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localstorage: delete %s: %w", path, err)
	}
	return nil
}

// List 列出目录中的所有文件（不递归）
func (s *LocalBlobStore) List(ctx context.Context) ([]repository.BlobInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("localstorage: read dir %s: %w", s.dir, err)
	}
	blobs := make([]repository.BlobInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // 列目录和 stat 之间被删除
		}
		blobs = append(blobs, repository.BlobInfo{Ref: URLPrefix + e.Name(), ModTime: info.ModTime()})
	}
	return blobs, nil
}

// refToName 去掉前缀并只保留文件名，防止路径穿越
func refToName(ref string) string {
	name := filepath.Base(strings.TrimPrefix(ref, URLPrefix))
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return ""
	}
	return name
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		if r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
}
