package service

import (
	"context"
	"sync"
	"time"

	"go-care-scheduling/config"
	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationDispatcher queues notifications for asynchronous delivery.
type NotificationDispatcher interface {
	// Dispatch never blocks. It reports false when the notification was dropped.
	Dispatch(n Notification) bool
}

// NotificationService is a bounded queue drained by a fixed pool of workers. Delivery
// failures are logged and counted; they never reach the operation that queued them.
type NotificationService struct {
	sender      Sender
	log         *logrus.Logger
	metrics     *metrics.Metrics
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Notification
	wg     sync.WaitGroup
}

// NewNotificationService starts the workers. Call Stop during graceful shutdown.
func NewNotificationService(sender Sender, log *logrus.Logger, m *metrics.Metrics, cfg config.NotifyConfig) *NotificationService {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	size := cfg.QueueSize
	if size < 1 {
		size = 1
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &NotificationService{
		sender:      sender,
		log:         log,
		metrics:     m,
		sendTimeout: timeout,
		queue:       make(chan Notification, size),
	}

	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

func (s *NotificationService) Dispatch(n Notification) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.log.Warnf("Notification service stopped, dropping %s notification for appointment %s", n.Event, n.Appointment.ID)
		s.metrics.NotificationsDropped.Inc()
		return false
	}

	select {
	case s.queue <- n:
		s.metrics.NotificationQueue.Inc()
		return true
	default:
		s.log.Warnf("Notification queue full, dropping %s notification for appointment %s", n.Event, n.Appointment.ID)
		s.metrics.NotificationsDropped.Inc()
		return false
	}
}

// Stop stops accepting notifications, drains the queue and waits for the workers.
// Safe to call multiple times.
func (s *NotificationService) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Notification service stopped")
}

func (s *NotificationService) worker() {
	defer s.wg.Done()
	for n := range s.queue {
		s.metrics.NotificationQueue.Dec()
		s.deliver(n)
	}
}

func (s *NotificationService) deliver(n Notification) {
	messages, err := RenderMessages(n)
	if err != nil {
		s.log.Warnf("Failed to render %s notification: %+v", n.Event, apperror.Notification(err))
		s.metrics.NotificationsSent.WithLabelValues(string(n.Event), "render_error").Inc()
		return
	}

	for _, msg := range messages {
		ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		err := s.sender.Send(ctx, msg.To, msg.Subject, msg.Body)
		cancel()
		if err != nil {
			s.log.Warnf("Failed to send %s notification to %s: %+v", n.Event, msg.To, apperror.Notification(err))
			s.metrics.NotificationsSent.WithLabelValues(string(n.Event), "failed").Inc()
			continue
		}
		s.metrics.NotificationsSent.WithLabelValues(string(n.Event), "sent").Inc()
	}
}
