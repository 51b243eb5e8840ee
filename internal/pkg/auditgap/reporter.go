// Package auditgap surfaces audit log appends that failed after the mutation
// they describe had already been committed.
package auditgap

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultMaxEntries caps the Redis list of pending gaps
const DefaultMaxEntries = 1000

// Gap describes one history record that could not be written
type Gap struct {
	StudentID  int64     `json:"id_alumno"`
	ChangeType string    `json:"tipo_cambio"`
	Error      string    `json:"error"`
	UserID     string    `json:"usuario_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Reporter receives audit gaps. Implementations must not fail the caller.
type Reporter interface {
	Report(ctx context.Context, gap Gap)
}

// Lister exposes the gaps a reporter still holds
type Lister interface {
	Pending(ctx context.Context, limit int64) ([]Gap, error)
}

// LogReporter writes every gap to the structured log at error level
type LogReporter struct {
	log zerolog.Logger
}

// NewLogReporter creates a LogReporter
func NewLogReporter(log zerolog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

// Report implements Reporter
func (r *LogReporter) Report(_ context.Context, gap Gap) {
	r.log.Error().
		Str("event", "audit_gap").
		Int64("studentID", gap.StudentID).
		Str("changeType", gap.ChangeType).
		Str("userID", gap.UserID).
		Str("cause", gap.Error).
		Time("occurredAt", gap.OccurredAt).
		Msg("History record could not be written")
}

// listCommands is the subset of *redis.Client the RedisReporter uses
type listCommands interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisReporter keeps the most recent gaps in a Redis list, newest first
type RedisReporter struct {
	client     listCommands
	key        string
	maxEntries int64
	log        zerolog.Logger
}

// NewRedisReporter creates a RedisReporter over the given key
func NewRedisReporter(client listCommands, key string, log zerolog.Logger) *RedisReporter {
	return &RedisReporter{
		client:     client,
		key:        key,
		maxEntries: DefaultMaxEntries,
		log:        log,
	}
}

// Report implements Reporter
func (r *RedisReporter) Report(ctx context.Context, gap Gap) {
	payload, err := json.Marshal(gap)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encode audit gap")
		return
	}

	if err := r.client.LPush(ctx, r.key, payload).Err(); err != nil {
		r.log.Error().Err(err).Str("key", r.key).Int64("studentID", gap.StudentID).Msg("Failed to push audit gap to Redis")
		return
	}
	if err := r.client.LTrim(ctx, r.key, 0, r.maxEntries-1).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", r.key).Msg("Failed to trim audit gap list")
	}
}

// Pending implements Lister. A limit of zero or less returns every stored gap.
func (r *RedisReporter) Pending(ctx context.Context, limit int64) ([]Gap, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = limit - 1
	}

	values, err := r.client.LRange(ctx, r.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit gaps: %w", err)
	}

	gaps := make([]Gap, 0, len(values))
	for _, v := range values {
		var gap Gap
		if err := json.Unmarshal([]byte(v), &gap); err != nil {
			r.log.Warn().Err(err).Msg("Skipping malformed audit gap entry")
			continue
		}
		gaps = append(gaps, gap)
	}
	return gaps, nil
}

// Multi fans a gap out to several reporters
type Multi []Reporter

// Report implements Reporter
func (m Multi) Report(ctx context.Context, gap Gap) {
	for _, r := range m {
		r.Report(ctx, gap)
	}
}
