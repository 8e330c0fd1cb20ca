package tasks

import (
	"encoding/json"
	"time"
)

// 定义任务类型常量
const (
	TypeBlobSweep = "blob:sweep" // 清理没有关卡引用的上传文件
)

// BlobSweepPayload 定义了孤儿文件清理任务的数据结构
type BlobSweepPayload struct {
	// 比这个时间新的文件不会被删除，避免误删刚上传、关卡还没保存的图片
	GraceSeconds int64 `json:"grace_seconds"`
}

// Grace 返回宽限期
func (p BlobSweepPayload) Grace() time.Duration {
	return time.Duration(p.GraceSeconds) * time.Second
}

// NewBlobSweepPayload 创建清理任务的 payload
func NewBlobSweepPayload(grace time.Duration) ([]byte, error) {
	return json.Marshal(BlobSweepPayload{GraceSeconds: int64(grace / time.Second)})
}
