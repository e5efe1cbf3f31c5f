package collector

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
	"github.com/LeonardoBeccarini/smartbin/pkg/dedup"
	"github.com/LeonardoBeccarini/smartbin/pkg/rabbitmq"
)

const DefaultWriteTimeout = 5 * time.Second

// Service ingests fill reports from the uplink topic.
type Service struct {
	consumer rabbitmq.IConsumer
	store    Store
	cache    *Cache
	metrics  *Metrics
	dedup    *dedup.Deduper

	now          func() time.Time
	writeTimeout time.Duration

	mu      sync.RWMutex
	lastErr time.Time
}

func NewService(consumer rabbitmq.IConsumer, store Store, metrics *Metrics, dd *dedup.Deduper) *Service {
	return &Service{
		consumer:     consumer,
		store:        store,
		cache:        NewCache(),
		metrics:      metrics,
		dedup:        dd,
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
	}
}

func (s *Service) Cache() *Cache { return s.cache }
func (s *Service) Store() Store  { return s.store }

// Start blocks consuming until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.consumer.SetHandler(s.Handle)
	return s.consumer.Consume(ctx)
}

// Handle processes one uplink frame. Bad payloads are counted and skipped so
// they never block the stream; only store failures are returned.
func (s *Service) Handle(topic string, msg mqtt.Message) error {
	payload := msg.Payload()

	if s.dedup != nil {
		sum := sha256.Sum256(append([]byte(topic+"\x00"), payload...))
		if !s.dedup.ShouldProcess(hex.EncodeToString(sum[:])) {
			log.Printf("collector: duplicate frame on %s skipped", topic)
			return nil
		}
	}

	report, err := model.DecodeFillReport(payload)
	if err != nil {
		s.metrics.rejected.Inc()
		log.Printf("collector: rejected frame on %s: %v", topic, err)
		return nil
	}

	st := model.BinStatus{BinID: report.ID, Fill: report.Fill, Timestamp: s.now().UTC()}
	s.cache.Put(st)
	s.metrics.reports.Inc()
	s.metrics.fill.WithLabelValues(st.BinID).Set(float64(st.Fill))

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.store.Write(ctx, st); err != nil {
		s.metrics.storeErrors.Inc()
		s.mu.Lock()
		s.lastErr = s.now()
		s.mu.Unlock()
		return err
	}
	log.Printf("collector: %s fill=%d%% stored in %s", st.BinID, st.Fill, s.store.Name())
	return nil
}

// Warm seeds the cache, e.g. from PostgresStore.Latest after a restart.
func (s *Service) Warm(list []model.BinStatus) {
	for _, st := range list {
		s.cache.Put(st)
		s.metrics.fill.WithLabelValues(st.BinID).Set(float64(st.Fill))
	}
}

// LastErrorAge reports how long ago the store last failed.
func (s *Service) LastErrorAge() time.Duration {
	s.mu.RLock()
	t := s.lastErr
	s.mu.RUnlock()
	if t.IsZero() {
		return 99999 * time.Hour
	}
	return s.now().Sub(t)
}
