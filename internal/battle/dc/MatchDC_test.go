package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
)

type blockingPublisher struct {
	mu      sync.Mutex
	ticks   []uint64
	overs   []*entity.MatchReport
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *blockingPublisher) PublishTick(id entity.MatchID, s *entity.TickSnapshot) {
	p.once.Do(func() {
		close(p.started)
		<-p.release
	})
	p.mu.Lock()
	p.ticks = append(p.ticks, s.Version)
	p.mu.Unlock()
}

func (p *blockingPublisher) PublishOver(id entity.MatchID, r *entity.MatchReport) {
	p.mu.Lock()
	p.overs = append(p.overs, r)
	p.mu.Unlock()
}

func (p *blockingPublisher) snapshot() ([]uint64, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint64(nil), p.ticks...), len(p.overs)
}

type flakyRepo struct {
	mu    sync.Mutex
	fails int
	saved []*entity.MatchReport
	calls int
}

func (r *flakyRepo) Save(ctx context.Context, report *entity.MatchReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fails > 0 {
		r.fails--
		return errors.New("db down")
	}
	r.saved = append(r.saved, report)
	return nil
}

func (r *flakyRepo) Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error) {
	return nil, entity.ErrReportNotFound
}

func TestMatchDC_推送阻塞期间只保留最新版本(t *testing.T) {
	pub := newBlockingPublisher()
	d := NewMatchDC("1", pub, nil, nil)

	d.Publish(engine.Snapshot{Time: 1})
	<-pub.started
	// 第一帧卡在推送里，这期间连续入队的帧只有最后一帧会被发出
	d.Publish(engine.Snapshot{Time: 2})
	d.Publish(engine.Snapshot{Time: 3})
	close(pub.release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("关闭失败: %v", err)
	}
	ticks, _ := pub.snapshot()
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 3 {
		t.Fatalf("期望推送版本 [1 3]，实际 %v", ticks)
	}
	if d.Version() != 3 {
		t.Fatalf("期望版本号 3，实际 %d", d.Version())
	}
}

func TestMatchDC_战报写库失败会重试成功后推送结束(t *testing.T) {
	pub := newBlockingPublisher()
	close(pub.release)
	repo := &flakyRepo{fails: 2}
	var observed []error
	var obsMu sync.Mutex
	d := NewMatchDC("2", pub, repo, nil,
		WithRetryInterval(time.Millisecond),
		WithReportObserver(func(err error) {
			obsMu.Lock()
			observed = append(observed, err)
			obsMu.Unlock()
		}),
	)

	d.Archive(&entity.MatchReport{MatchID: "2", Winner: 1})

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, overs := pub.snapshot()
		if overs == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("期望重试后推送 battle.over")
		}
		time.Sleep(5 * time.Millisecond)
	}
	_ = d.Close(context.Background())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.calls != 3 || len(repo.saved) != 1 {
		t.Fatalf("期望写库 3 次成功 1 次，实际 calls=%d saved=%d", repo.calls, len(repo.saved))
	}
	obsMu.Lock()
	defer obsMu.Unlock()
	if len(observed) != 3 || observed[2] != nil {
		t.Fatalf("期望观察到两次失败一次成功，实际 %v", observed)
	}
}

func TestMatchDC_关闭后不再入队(t *testing.T) {
	pub := newBlockingPublisher()
	close(pub.release)
	d := NewMatchDC("3", pub, nil, nil)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("关闭失败: %v", err)
	}
	d.Publish(engine.Snapshot{})
	d.Archive(&entity.MatchReport{})
	ticks, overs := pub.snapshot()
	if len(ticks) != 0 || overs != 0 {
		t.Fatalf("期望关闭后不再推送，实际 ticks=%v overs=%d", ticks, overs)
	}
}

func TestMatchDC_战报持续写库失败时有限次重试后放弃(t *testing.T) {
	pub := newBlockingPublisher()
	close(pub.release)
	repo := &flakyRepo{fails: 1 << 30}
	d := NewMatchDC("4", pub, repo, nil,
		WithRetryInterval(time.Millisecond),
		WithMaxReportAttempts(3),
	)

	d.Archive(&entity.MatchReport{MatchID: "4", Winner: 2})

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, overs := pub.snapshot()
		if overs == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("期望放弃写库后仍推送 battle.over")
		}
		time.Sleep(5 * time.Millisecond)
	}
	// 放弃之后不应再有写库
	time.Sleep(20 * time.Millisecond)
	_ = d.Close(context.Background())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.calls != 3 || len(repo.saved) != 0 {
		t.Fatalf("期望写库 3 次后放弃，实际 calls=%d saved=%d", repo.calls, len(repo.saved))
	}
}

func TestMatchDC_重试间隔按次数翻倍且有上限(t *testing.T) {
	d := &MatchDC{retryEvery: 10 * time.Millisecond, retryMax: 25 * time.Millisecond}
	for _, c := range []struct {
		tries int
		want  time.Duration
	}{{1, 10 * time.Millisecond}, {2, 20 * time.Millisecond}, {3, 25 * time.Millisecond}, {9, 25 * time.Millisecond}} {
		d.tries = c.tries
		if got := d.retryWait(); got != c.want {
			t.Fatalf("第 %d 次失败后期望等待 %v，实际 %v", c.tries, c.want, got)
		}
	}
}
