package repository

import (
	"context"
	"io"
	"time"
)

// BlobInfo 描述 BlobStore 中的一个对象。
type BlobInfo struct {
	Ref     string
	ModTime time.Time
}

// BlobStore 保存上传的二进制文件并返回稳定的引用地址。
type BlobStore interface {
	// Upload 写入内容并返回可供前端访问的引用，例如 "/uploads/<name>"。
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	// Delete 删除引用对应的对象，对象不存在时不报错。
	Delete(ctx context.Context, ref string) error

	List(ctx context.Context) ([]BlobInfo, error)
}
