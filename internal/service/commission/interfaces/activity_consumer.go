package interfaces

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/pkg/mq"
	"affiliatehub/internal/service/commission/domain"
)

// ActivityHandler 是消费者驱动的应用服务
type ActivityHandler interface {
	HandlePlatformActivity(ctx context.Context, evt domain.PlatformActivityEvent) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ActivityConsumer 监听 platform-activity，处理失败的消息转发到死信 topic 后再提交 offset。
type ActivityConsumer struct {
	reader  messageReader
	dlt     messageWriter
	handler ActivityHandler
	topic   string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityConsumer(reader *kafka.Reader, dlt *kafka.Writer, handler ActivityHandler) *ActivityConsumer {
	return newActivityConsumer(reader, dlt, handler, reader.Config().Topic)
}

func newActivityConsumer(reader messageReader, dlt messageWriter, handler ActivityHandler, topic string) *ActivityConsumer {
	return &ActivityConsumer{reader: reader, dlt: dlt, handler: handler, topic: topic}
}

// Start 启动消费循环，立即返回
func (c *ActivityConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logger.Ctx(ctx).Info().Str("topic", c.topic).Msg("activity consumer started")
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Ctx(ctx).Info().Str("topic", c.topic).Msg("activity consumer shutting down")
					return
				}
				logger.Ctx(ctx).Error().Err(err).Msg("could not fetch message, retrying")
				time.Sleep(time.Second)
				continue
			}

			c.processMessage(ctx, msg)

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit message")
			}
		}
	}()
	return nil
}

func (c *ActivityConsumer) Stop(ctx context.Context) {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.reader.Close(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to close activity reader")
	}
	logger.Ctx(ctx).Info().Str("topic", c.topic).Msg("activity consumer stopped")
}

// processMessage 反序列化消息并调用应用服务，失败时转发死信
func (c *ActivityConsumer) processMessage(parentCtx context.Context, msg kafka.Message) {
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(parentCtx, &carrier)

	var evt domain.PlatformActivityEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		c.deadLetter(ctx, msg, err)
		return
	}
	if err := c.handler.HandlePlatformActivity(ctx, evt); err != nil {
		c.deadLetter(ctx, msg, err)
	}
}

func (c *ActivityConsumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	logger.Ctx(ctx).Error().Err(cause).
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("activity message failed, forwarding to dead letter topic")

	headers := append([]kafka.Header{}, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: mq.HeaderOriginalTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: mq.HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: mq.HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: mq.HeaderExceptionMessage, Value: []byte(cause.Error())},
	)
	err := c.dlt.WriteMessages(ctx, kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers})
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("offset", msg.Offset).Msg("failed to write dead letter message")
	}
}
