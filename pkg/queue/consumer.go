package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumeMessages declares queueName and registers a manual-ack consumer on it.
func ConsumeMessages(ch *amqp.Channel, queueName string) (<-chan amqp.Delivery, error) {
	if _, err := DeclareQueue(ch, queueName); err != nil {
		return nil, err
	}

	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}
