package dc

import (
	"context"
	"sync"
	"time"

	"Skirmish/internal/battle/app/port"
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

type MatchID = entity.MatchID

// ReportObserver 战报写库结果回调，用于指标。
type ReportObserver func(err error)

// MatchDC 一局的出站数据通道：帧推送只保留最新版本，战报写库失败会重试。
// 写出全部在 writerLoop 里完成，actor 侧只做入队，不会被慢连接或数据库卡住。
type MatchDC struct {
	matchID    MatchID
	pub        port.Publisher
	repo       port.ReportRepository
	log        logx.Logger
	onSaved    ReportObserver
	retryEvery time.Duration
	retryMax   time.Duration
	maxTries   int
	tries      int // 只在 writerLoop 里读写

	mu      sync.Mutex
	pending *entity.TickSnapshot
	report  *entity.MatchReport
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

type Option func(*MatchDC)

func WithReportObserver(fn ReportObserver) Option {
	return func(d *MatchDC) {
		d.onSaved = fn
	}
}

func WithRetryInterval(every time.Duration) Option {
	return func(d *MatchDC) {
		if every > 0 {
			d.retryEvery = every
		}
	}
}

// WithMaxReportAttempts 战报最多写库 n 次，之后放弃并照常推送结束。
func WithMaxReportAttempts(n int) Option {
	return func(d *MatchDC) {
		if n > 0 {
			d.maxTries = n
		}
	}
}

func NewMatchDC(matchID MatchID, pub port.Publisher, repo port.ReportRepository, l logx.Logger, opts ...Option) *MatchDC {
	if l == nil {
		l = logx.Nop()
	}
	d := &MatchDC{
		matchID:    matchID,
		pub:        pub,
		repo:       repo,
		log:        l,
		retryEvery: 200 * time.Millisecond,
		retryMax:   5 * time.Second,
		maxTries:   6,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.writerLoop()
	return d
}

// Publish 给 s 分配下一个版本号并入队，返回该版本号。
func (d *MatchDC) Publish(s engine.Snapshot) uint64 {
	d.mu.Lock()
	d.version++
	t := &entity.TickSnapshot{MatchID: d.matchID, Version: d.version, State: s}
	d.mu.Unlock()

	d.enqueueLatest(t)
	return t.Version
}

// Archive 入队战报。写库成功后再向客户端推送 battle.over。
func (d *MatchDC) Archive(r *entity.MatchReport) {
	if r == nil {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.report = r
	d.mu.Unlock()
	d.notify()
}

func (d *MatchDC) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *MatchDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MatchDC) enqueueLatest(s *entity.TickSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()
	d.notify()
}

func (d *MatchDC) notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *MatchDC) popPending() (*entity.TickSnapshot, *entity.MatchReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, r := d.pending, d.report
	d.pending, d.report = nil, nil
	return s, r
}

func (d *MatchDC) requeueReport(r *entity.MatchReport) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	if d.report == nil {
		d.report = r
	}
	return true
}

func (d *MatchDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

func (d *MatchDC) consumePending(final bool) {
	for {
		s, r := d.popPending()
		if s == nil && r == nil {
			return
		}
		if s != nil && d.pub != nil {
			d.pub.PublishTick(d.matchID, s)
		}
		if r != nil {
			d.writeReport(r, final)
		}
	}
}

func (d *MatchDC) writeReport(r *entity.MatchReport, final bool) {
	if d.repo != nil {
		d.tries++
		err := d.repo.Save(context.TODO(), r)
		if d.onSaved != nil {
			d.onSaved(err)
		}
		if err != nil {
			d.log.Warn("match report save failed",
				zap.String("match_id", d.matchID.String()),
				zap.Int("attempt", d.tries),
				zap.Error(err),
			)
			// 关闭阶段只尝试一次
			if final {
				return
			}
			if d.tries < d.maxTries {
				if d.requeueReport(r) {
					d.backoff()
					d.notify()
				}
				return
			}
			d.log.Error("match report dropped",
				zap.String("match_id", d.matchID.String()),
				zap.Int("attempts", d.tries),
				zap.Error(err),
			)
		}
		d.tries = 0
	}
	if d.pub != nil {
		d.pub.PublishOver(d.matchID, r)
	}
}

// retryWait 按已失败次数翻倍，不超过 retryMax。
func (d *MatchDC) retryWait() time.Duration {
	wait := d.retryEvery
	for i := 1; i < d.tries && wait < d.retryMax; i++ {
		wait *= 2
	}
	return min(wait, d.retryMax)
}

// backoff 等待下一次重试，Close 会提前打断。
func (d *MatchDC) backoff() {
	t := time.NewTimer(d.retryWait())
	defer t.Stop()
	select {
	case <-t.C:
	case <-d.stop:
	}
}
