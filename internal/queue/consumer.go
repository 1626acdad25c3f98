package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer drains the booking.events queue and appends a
// line per message to logs/booking.log. It reconnects with a backoff
// when the broker drops, so it is safe to start before RabbitMQ is up.
// Run it on its own goroutine; it never returns.
func StartBookingConsumer() {
	for {
		if err := consumeOnce(); err != nil {
			log.Printf("[queue] consumer stopped: %v (retrying in 5s)", err)
		}
		time.Sleep(5 * time.Second)
	}
}

func consumeOnce() error {
	conn, err := amqp.Dial(amqpURL())
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
		return err
	}

	msgs, err := ch.Consume(BookingQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	log.Printf("[queue] consuming %s", BookingQueue)
	for d := range msgs {
		var ev BookingEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("[queue] bad message dropped: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		if err := appendBookingLog(ev); err != nil {
			log.Printf("[queue] log write failed: %v", err)
			_ = d.Nack(false, true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendBookingLog(ev BookingEvent) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s action=%s event=%s name=%q room=%d user=%d slot=%s %s-%s\n",
		time.Now().UTC().Format(time.RFC3339),
		ev.Action, ev.EventID, ev.EventName, ev.RoomID, ev.UserID,
		ev.Date, ev.StartTime, ev.EndTime)
	_, err = f.WriteString(line)
	return err
}
