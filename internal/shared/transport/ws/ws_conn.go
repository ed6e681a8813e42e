package ws

import (
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// 握手和心跳不走路由，由连接自己应答。
const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"
	SecretKey    = "secretKey"
)

// ReqBody 客户端帧：name 是 group.handler，seq 由客户端自增，应答原样带回。
type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

// Reply 生成与请求同 seq 同 name 的应答帧。
func (b *ReqBody) Reply() *RespBody {
	return &RespBody{Seq: b.Seq, Name: b.Name}
}

// RespBody 服务端帧。服务端主动推送的帧 seq 为 0。
type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 是 handler 看到的连接：属性读写 + 主动推送 + 生命周期。
type WSConn interface {
	ID() string
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done 在连接关闭时被关闭，session 靠它自动解绑
	Done() <-chan struct{}
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

// answerHeartbeat 回显客户端时间并盖上服务端时间，解码失败时 ctime 为 0。
func answerHeartbeat(msg any, now time.Time) (*Heartbeat, error) {
	h := &Heartbeat{}
	err := mapstructure.WeakDecode(msg, h)
	h.STime = now.UnixMilli()
	return h, err
}
