package ws

import "sync"

type pushed struct {
	name string
	data any
}

type fakeConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushes []pushed
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: make(map[string]any), done: make(chan struct{})}
}

func (c *fakeConn) ID() string { return "fake" }

func (c *fakeConn) Addr() string { return "127.0.0.1:0" }

func (c *fakeConn) SetProperty(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[key] = value
}

func (c *fakeConn) GetProperty(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[key]
}

func (c *fakeConn) RemoveProperty(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, key)
}

func (c *fakeConn) Push(name string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushes = append(c.pushes, pushed{name: name, data: data})
}

func (c *fakeConn) Close() { c.once.Do(func() { close(c.done) }) }

func (c *fakeConn) Done() <-chan struct{} { return c.done }
