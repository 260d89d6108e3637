package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fixmate/config"
	"fixmate/models"
	"fixmate/services/notification"
	"fixmate/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitNotifyWorker runs the async delivery worker in background. It consumes
// dispatch events enqueued by the QueueNotifier and pushes them to contractor
// devices over FCM.
func InitNotifyWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueue,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeDispatchNotify, handleDispatchEvent)

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[NotifyWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleDispatchEvent(ctx context.Context, task *asynq.Task) error {
	var ev models.DispatchEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		log.Printf("[NotifyWorker] Invalid payload: %v", err)
		return err
	}

	if ev.DeviceToken == "" {
		// Nothing to push to; the customer-facing UI polls status instead.
		return nil
	}

	title, body := renderEvent(ev)
	msg := &messaging.Message{
		Token: ev.DeviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":      ev.Type,
			"sessionId": ev.SessionID,
			"serviceId": ev.ServiceID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		log.Printf("[NotifyWorker] Failed to send push for session %s: %v", ev.SessionID, err)
		return err
	}
	return nil
}

// renderEvent turns a dispatch event into push copy.
func renderEvent(ev models.DispatchEvent) (title, body string) {
	switch ev.Type {
	case models.EventOfferExtended:
		return "New premium job offer", "You have a new " + ev.ServiceID + " request. Respond before the offer expires."
	case models.EventAssignment:
		return "Job confirmed", "You are booked for a " + ev.ServiceID + " job. Head out when ready."
	default:
		return "Dispatch update", "A dispatch session you were part of has been updated."
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueue,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotifyWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
