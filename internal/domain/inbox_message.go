package domain

import "time"

type InboxMessageStatus string

const (
	InboxStatusNew       InboxMessageStatus = "NEW"
	InboxStatusProcessed InboxMessageStatus = "PROCESSED"
	InboxStatusFailed    InboxMessageStatus = "FAILED"
)

// InboxMessage records an incoming transfer command by its request id so a
// redelivered command never moves money twice.
type InboxMessage struct {
	ID             string
	KafkaTopic     string
	KafkaPartition int
	KafkaOffset    int64
	ConsumerGroup  string
	Payload        []byte
	Status         InboxMessageStatus
	Error          string
	ReceivedAt     time.Time
	ProcessedAt    *time.Time
}
