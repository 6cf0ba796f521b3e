package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartNotificationConsumer connects to RabbitMQ, declares the ticket
// queues (durable), and starts consuming messages. Each message is
// appended to logs/notifications.log in a single-line, human-friendly
// format, standing in for the real notification dispatcher. The
// function runs a reconnect loop; it keeps running and logs any
// processing errors while rejecting the offending message so the
// server continues operating.
func StartNotificationConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{TicketIssuedQueue, TicketCheckedInQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	issued, err := ch.Consume(TicketIssuedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", TicketIssuedQueue, err)
	}
	checkedIn, err := ch.Consume(TicketCheckedInQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", TicketCheckedInQueue, err)
	}

	for {
		var d amqp.Delivery
		var ok bool
		var handle func([]byte) error
		select {
		case d, ok = <-issued:
			handle = handleTicketIssued
		case d, ok = <-checkedIn:
			handle = handleTicketCheckedIn
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := handle(d.Body); err != nil {
			log.Printf("notification-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func handleTicketIssued(body []byte) error {
	var ev TicketIssuedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Ticket issued | ticket_id=%s | registration_id=%s | event_id=%s | attendee_id=%s | type=%s | price=%d cents\n",
		ev.IssuedAt, ev.TicketID, ev.RegistrationID, ev.EventID, ev.AttendeeID, ev.TicketType, ev.PriceCents)
	return appendNotification(line)
}

func handleTicketCheckedIn(body []byte) error {
	var ev TicketCheckedInEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Ticket checked in | ticket_id=%s | event_id=%s | attendee_id=%s\n",
		ev.CheckedInAt, ev.TicketID, ev.EventID, ev.AttendeeID)
	return appendNotification(line)
}

func appendNotification(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notifications.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
