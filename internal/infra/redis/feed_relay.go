package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"quiz-api-service/internal/domain"
)

const feedPattern = "quiz:feed:*"

// FeedSink receives answers relayed from any instance (app.AnswerFeed).
type FeedSink interface {
	Publish(answer domain.Answer)
}

// FeedRelay fans submitted answers out to every instance over Redis pub/sub:
// PUBLISH quiz:feed:{quizID} {answer JSON}
// Each instance pattern-subscribes and forwards what it hears to its local sink,
// including its own submissions.
type FeedRelay struct {
	client *redis.Client
	sink   FeedSink
}

func NewFeedRelay(client *redis.Client, sink FeedSink) *FeedRelay {
	return &FeedRelay{client: client, sink: sink}
}

func (r *FeedRelay) Publish(ctx context.Context, answer domain.Answer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	return r.client.Publish(ctx, feedChannel(answer.QuizID), data).Err()
}

// Start subscribes and forwards messages until ctx is canceled. It returns once
// the subscription is confirmed so no answer published afterwards is missed.
func (r *FeedRelay) Start(ctx context.Context) error {
	ps := r.client.PSubscribe(ctx, feedPattern)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("subscribe %s: %w", feedPattern, err)
	}

	messages := ps.Channel()
	go func() {
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var answer domain.Answer
				if err := json.Unmarshal([]byte(msg.Payload), &answer); err != nil {
					log.Printf("dropping malformed feed message on %s: %v", msg.Channel, err)
					continue
				}
				r.sink.Publish(answer)
			}
		}
	}()
	return nil
}

func feedChannel(quizID string) string {
	return "quiz:feed:" + quizID
}
