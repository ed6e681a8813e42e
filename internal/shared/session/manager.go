package session

import (
	"sync"

	"Skirmish/internal/shared/transport/ws"
)

// Key 标识一局里的一个玩家席位。
type Key struct {
	MatchID  string
	PlayerID int
}

type Manager interface {
	Bind(key Key, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	GetConn(key Key) (ws.WSConn, bool)
	GetKey(conn ws.WSConn) (Key, bool)
	// Conns 返回某一局当前在线的全部连接，用于推送 tick 和战报。
	Conns(matchID string) []ws.WSConn
}

type SessMgr struct {
	sync.RWMutex
	key2conn map[Key]ws.WSConn
	conn2key map[ws.WSConn]Key
	watched  map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		key2conn: make(map[Key]ws.WSConn),
		conn2key: make(map[ws.WSConn]Key),
		watched:  make(map[ws.WSConn]struct{}),
	}
}

// Bind 同一席位重复绑定时踢掉旧连接；一条连接同一时刻只绑定一个席位。
func (s *SessMgr) Bind(key Key, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 每条连接只启动一次 watcher：连接关闭后自动解绑
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	if prevKey, ok := s.conn2key[conn]; ok && prevKey != key && s.key2conn[prevKey] == conn {
		delete(s.key2conn, prevKey)
	}
	if old := s.key2conn[key]; old != nil && old != conn {
		delete(s.conn2key, old)
		old.Push("battle.kicked", nil)
		old.Close()
	}
	s.key2conn[key] = conn
	s.conn2key[conn] = key
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	delete(s.watched, conn)
	key, ok := s.conn2key[conn]
	if !ok {
		return
	}
	delete(s.conn2key, conn)
	if s.key2conn[key] == conn {
		delete(s.key2conn, key)
	}
}

func (s *SessMgr) GetConn(key Key) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.key2conn[key]
	return conn, ok
}

func (s *SessMgr) GetKey(conn ws.WSConn) (Key, bool) {
	s.RLock()
	defer s.RUnlock()
	key, ok := s.conn2key[conn]
	return key, ok
}

func (s *SessMgr) Conns(matchID string) []ws.WSConn {
	s.RLock()
	defer s.RUnlock()
	var out []ws.WSConn
	for key, conn := range s.key2conn {
		if key.MatchID == matchID {
			out = append(out, conn)
		}
	}
	return out
}
