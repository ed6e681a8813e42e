package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// 对局 id 的位布局：41 位毫秒时间戳 | 10 位节点 | 12 位序号。
const (
	idEpochMilli int64 = 1735689600000 // 2025-01-01 UTC

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = 1<<nodeBits - 1
	maxSeq    int64 = 1<<seqBits - 1
)

// IDGen 按节点生成单调递增的 64 位 id，同一毫秒内溢出时借用下一毫秒。
type IDGen struct {
	mu     sync.Mutex
	node   int64
	clock  func() int64
	lastMS int64
	seq    int64
}

func NewIDGen(node int64) (*IDGen, error) {
	if node < 0 || node > maxNodeID {
		return nil, fmt.Errorf("id node out of range [0,%d]: %d", maxNodeID, node)
	}
	return &IDGen{
		node:  node,
		clock: func() int64 { return time.Now().UnixMilli() },
	}, nil
}

func (g *IDGen) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := max(g.clock(), g.lastMS)
	if ms == g.lastMS {
		g.seq++
		if g.seq > maxSeq {
			// 不等真实时钟，直接记到下一毫秒
			ms++
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.lastMS = ms
	return (ms-idEpochMilli)<<(nodeBits+seqBits) | g.node<<seqBits | g.seq
}

// SplitID 拆出生成时间和节点号，排查日志时用。
func SplitID(id int64) (time.Time, int64) {
	ms := id>>(nodeBits+seqBits) + idEpochMilli
	node := id >> seqBits & maxNodeID
	return time.UnixMilli(ms), node
}

var (
	defaultGen     *IDGen
	defaultGenErr  error
	defaultGenOnce sync.Once
)

// NextSnowflakeID 使用进程级生成器，节点号取 SNOWFLAKE_NODE_ID，未设置时为 1。
func NextSnowflakeID() (int64, error) {
	defaultGenOnce.Do(func() {
		node := int64(1)
		if raw := strings.TrimSpace(os.Getenv("SNOWFLAKE_NODE_ID")); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				defaultGenErr = fmt.Errorf("invalid SNOWFLAKE_NODE_ID %q: %w", raw, err)
				return
			}
			node = n
		}
		defaultGen, defaultGenErr = NewIDGen(node)
	})
	if defaultGenErr != nil {
		return 0, defaultGenErr
	}
	return defaultGen.Next(), nil
}
