package push

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/pkg/mq"
)

var tracer = otel.Tracer("push-gateway")

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventEnvelope 只解析路由需要的字段，原始消息体原样推给前端
type eventEnvelope struct {
	Type  string `json:"type"`
	RepID string `json:"rep_id"`
}

// EventConsumer 消费 commission-events 并交给 hub 推送
type EventConsumer struct {
	reader messageReader
	hub    *Hub

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventConsumer(reader *kafka.Reader, hub *Hub) *EventConsumer {
	return newEventConsumer(reader, hub)
}

func newEventConsumer(reader messageReader, hub *Hub) *EventConsumer {
	return &EventConsumer{reader: reader, hub: hub}
}

// Start 同时启动 hub 和消费循环
func (c *EventConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.hub.Run(ctx)
	}()
	go func() {
		defer c.wg.Done()
		logger.L().Info().Msg("push event consumer started")
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.L().Error().Err(err).Msg("could not fetch message, retrying")
				time.Sleep(time.Second)
				continue
			}
			c.dispatch(ctx, msg)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.L().Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit message")
			}
		}
	}()
	return nil
}

func (c *EventConsumer) Stop(ctx context.Context) {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.reader.Close(); err != nil {
		logger.L().Warn().Err(err).Msg("failed to close event reader")
	}
	logger.L().Info().Msg("push event consumer stopped")
}

// dispatch 推送是尽力而为，解析失败的消息只记日志
func (c *EventConsumer) dispatch(parentCtx context.Context, msg kafka.Message) int {
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(parentCtx, &carrier)
	ctx, span := tracer.Start(ctx, "push.Dispatch")
	defer span.End()

	var env eventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil || env.RepID == "" {
		logger.Ctx(ctx).Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed event")
		return 0
	}
	n := c.hub.Deliver(env.RepID, msg.Value)
	span.SetAttributes(
		attribute.String("event.type", env.Type),
		attribute.String("rep.id", env.RepID),
		attribute.Int("push.delivered", n),
	)
	return n
}
