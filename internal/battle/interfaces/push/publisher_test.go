package push

import (
	"sync"
	"testing"

	"Skirmish/internal/battle/entity"
	"Skirmish/internal/shared/session"
)

type recordConn struct {
	mu    sync.Mutex
	names []string
	done  chan struct{}
}

func (c *recordConn) ID() string {
	return "r"
}

func (c *recordConn) SetProperty(key string, value any) {}

func (c *recordConn) GetProperty(key string) any {
	return nil
}

func (c *recordConn) RemoveProperty(key string) {}

func (c *recordConn) Addr() string {
	return ""
}

func (c *recordConn) Push(name string, data any) {
	c.mu.Lock()
	c.names = append(c.names, name)
	c.mu.Unlock()
}

func (c *recordConn) Close() {}

func (c *recordConn) Done() <-chan struct{} {
	return c.done
}

func TestSessionPublisher_只推给本局的连接(t *testing.T) {
	sess := session.NewSessMgr()
	mine := &recordConn{done: make(chan struct{})}
	other := &recordConn{done: make(chan struct{})}
	sess.Bind(session.Key{MatchID: "1", PlayerID: 1}, mine)
	sess.Bind(session.Key{MatchID: "2", PlayerID: 1}, other)

	p := NewSessionPublisher(sess)
	p.PublishTick("1", &entity.TickSnapshot{Version: 1})
	p.PublishOver("1", &entity.MatchReport{MatchID: "1"})

	if len(mine.names) != 2 || mine.names[0] != TickMsg || mine.names[1] != OverMsg {
		t.Fatalf("期望本局连接收到 tick 和 over，实际 %v", mine.names)
	}
	if len(other.names) != 0 {
		t.Fatalf("其它对局的连接不应收到推送，实际 %v", other.names)
	}
}
