package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Skirmish/internal/shared/utils"
	"Skirmish/modules/kit/logx"
)

const (
	writeWait    = 10 * time.Second
	readWait     = 60 * time.Second
	outQueueSize = 256
)

type outFrame struct {
	body  *RespBody
	plain bool
}

// WsServer 是一条 ws 连接：读循环解码并分发，写循环串行编码写出。
// 所有写都经过 outChan，gorilla 的 conn 只有写循环一个写者。
type WsServer struct {
	id       string
	conn     *websocket.Conn
	router   *Router
	codec    Codec
	outChan  chan outFrame
	property map[string]any
	sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, router *Router, codec Codec, l logx.Logger) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &WsServer{
		id:       id,
		conn:     wsConn,
		router:   router,
		codec:    codec,
		outChan:  make(chan outFrame, outQueueSize),
		property: make(map[string]any),
		ctx:      ctx,
		cancel:   cancel,
		log:      &connLogger{Logger: l, id: id},
	}
}

func (s *WsServer) ID() string {
	return s.id
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送。写队列满时丢弃本条，tick 快照下一帧会覆盖。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(outFrame{body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(f outFrame) {
	select {
	case <-s.ctx.Done():
	case s.outChan <- f:
	default:
		s.log.Warn("ws_server out queue full, drop frame", zap.String("name", f.body.Name))
	}
}

// Run 先排队握手帧，再启动读写循环。
func (s *WsServer) Run() {
	s.handshake()
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) secret() string {
	key, _ := s.GetProperty(SecretKey).(string)
	return key
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(readWait))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}

		reqBody, err := s.codec.Decode(data, s.secret())
		if err != nil {
			s.log.Warn("ws_server decode frame failed, re-handshake", zap.Error(err))
			s.handshake()
			continue
		}

		// req 和 resp 的 Seq 必须一致
		req := WsMsgReq{Body: reqBody, Conn: s}
		resp := WsMsgResp{Body: reqBody.Reply()}
		if reqBody.Name == HeartbeatMsg {
			h, err := answerHeartbeat(reqBody.Msg, time.Now())
			if err != nil {
				s.log.Debug("ws_server heartbeat decode", zap.Error(err))
			}
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws_server read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.Dispatch(s.ctx, &req, &resp)
		}
		s.enqueue(outFrame{body: resp.Body})
	}
}

func (s *WsServer) writeMsgLoop() {
	defer s.Close()
	for {
		select {
		case f := <-s.outChan:
			if err := s.write(f); err != nil {
				s.log.Warn("ws_server write error", zap.Error(err))
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *WsServer) write(f outFrame) error {
	var (
		data []byte
		err  error
	)
	if f.plain {
		data, err = s.codec.EncodePlain(f.body)
	} else {
		data, err = s.codec.Encode(f.body, s.secret())
	}
	if err != nil {
		// 编码失败只丢这一帧
		s.log.Error("ws_server encode frame", zap.String("name", f.body.Name), zap.Error(err))
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	// 压缩后的密文是二进制字节流，必须走 BinaryMessage
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// handshake 下发（或重发）本连接的 AES 密钥；不加密时下发空 key。
func (s *WsServer) handshake() {
	key := s.secret()
	if key == "" && s.codec.needSecret {
		key = utils.RandSeq(16)
		s.SetProperty(SecretKey, key)
	}
	s.enqueue(outFrame{
		body:  &RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}},
		plain: true,
	})
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.conn.Close()
		s.log.Debug("ws connection closed")
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.ctx.Done()
}

// connLogger 给连接内的日志统一带上 conn_id。
type connLogger struct {
	logx.Logger
	id string
}

func (l *connLogger) Info(msg string, fields ...zap.Field) {
	l.Logger.Info(msg, append(fields, zap.String("conn_id", l.id))...)
}

func (l *connLogger) Warn(msg string, fields ...zap.Field) {
	l.Logger.Warn(msg, append(fields, zap.String("conn_id", l.id))...)
}

func (l *connLogger) Error(msg string, fields ...zap.Field) {
	l.Logger.Error(msg, append(fields, zap.String("conn_id", l.id))...)
}

func (l *connLogger) Debug(msg string, fields ...zap.Field) {
	l.Logger.Debug(msg, append(fields, zap.String("conn_id", l.id))...)
}
