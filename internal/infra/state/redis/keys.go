package redisstate

import "fmt"

// keyspace 统一生成带前缀的 Redis key
type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = "dd:" // 默认前缀 "dd:" (drag-drop)
	}
	return keyspace{prefix: prefix}
}

func (k keyspace) session(id string) string {
	return fmt.Sprintf("%ssession:%s", k.prefix, id)
}

func (k keyspace) roomStatusChannel(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:status", k.prefix, roomID)
}

func (k keyspace) roomStatusPattern() string {
	return k.prefix + "room:*:status"
}
