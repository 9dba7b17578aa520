package infrastructure

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"affiliatehub/internal/pkg/mq"
	"affiliatehub/internal/service/commission/domain"
)

// KafkaEventPublisher 把领域事件写入 commission-events，按 rep_id 分区保证同一销售的事件有序。
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(writer *kafka.Writer) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, evt domain.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return pkgerrors.Wrap(err, "marshal event")
	}
	err = mq.ProduceMessage(ctx, p.writer, []byte(evt.RepID), payload,
		kafka.Header{Key: mq.HeaderEventType, Value: []byte(evt.Type)})
	return pkgerrors.Wrapf(err, "publish %s", evt.Type)
}

func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
