package notifier

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultQueueSize = 64
	drainTimeout     = 5 * time.Second
)

// Dispatcher 异步投递邮件。消息按 key（目标用户 ID）分片到固定 worker，
// 同一用户的邮件按入队顺序发送。workers 为 0 时同步发送。
type Dispatcher struct {
	sender EmailSender
	logger *zap.Logger
	queues []chan EmailMessage
}

// NewDispatcher 创建 Dispatcher。
func NewDispatcher(sender EmailSender, workers, queueSize int, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{sender: sender, logger: logger.Named("dispatcher")}
	for i := 0; i < workers; i++ {
		d.queues = append(d.queues, make(chan EmailMessage, queueSize))
	}
	return d
}

// Enqueue 提交一封邮件，不阻塞调用方；队列已满时丢弃并记录告警。
func (d *Dispatcher) Enqueue(ctx context.Context, key string, msg EmailMessage) {
	if d == nil || d.sender == nil {
		return
	}
	if len(d.queues) == 0 {
		d.send(ctx, msg)
		return
	}

	q := d.queues[shard(key, len(d.queues))]
	select {
	case q <- msg:
	default:
		d.logger.Warn("email queue full, dropping message",
			zap.String("key", key),
			zap.String("subject", msg.Subject),
		)
	}
}

// Run 启动全部 worker，ctx 取消后发送完队列中剩余邮件再返回。
func (d *Dispatcher) Run(ctx context.Context) error {
	if len(d.queues) == 0 {
		<-ctx.Done()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range d.queues {
		q := q
		g.Go(func() error {
			d.work(gctx, q)
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) work(ctx context.Context, q chan EmailMessage) {
	for {
		select {
		case msg := <-q:
			d.send(ctx, msg)
		case <-ctx.Done():
			d.drain(q)
			return
		}
	}
}

func (d *Dispatcher) drain(q chan EmailMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case msg := <-q:
			d.send(ctx, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, msg EmailMessage) {
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("send email failed",
			zap.String("to", strings.Join(msg.To, ",")),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
}

func shard(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
