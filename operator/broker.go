package operator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"
)

//Channel is the redis channel results are announced on.
const Channel = "foldy"

//BroadcastPayload is a result relayed between operator replicas.
type BroadcastPayload struct {
	Data     []byte `json:"data"`
	Success  bool   `json:"success"`
	ErrorMsg string `json:"error_msg"`
}

//Broker relays results to the replica waiting for them.
type Broker interface {
	//Publish stores P under correlationID and announces it.
	Publish(correlationID string, P *BroadcastPayload) error
	//Take returns the payload stored under correlationID and removes it.
	Take(correlationID string) (*BroadcastPayload, error)
	//Announcements yields the correlation IDs published by any replica.
	Announcements() <-chan string
	Close() error
}

func resultKey(correlationID string) string {
	return fmt.Sprintf("r:%s:i", correlationID)
}

type redisBroker struct {
	client *redis.Client
	pubsub *redis.PubSub
	ttl    time.Duration
	ann    chan string
	done   chan struct{}
}

//NewRedisBroker connects to the redis server at addr and subscribes to
//Channel. Stored results expire after ttl.
func NewRedisBroker(addr string, ttl time.Duration) (Broker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping().Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	pubsub := client.Subscribe(Channel)
	//wait for the subscription before anything gets published
	if _, err := pubsub.Receive(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pubsub: %w", err)
	}
	B := &redisBroker{client: client, pubsub: pubsub, ttl: ttl, ann: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(B.ann)
		for msg := range pubsub.Channel() {
			if msg.Channel != Channel {
				continue
			}
			select {
			case B.ann <- msg.Payload:
			case <-B.done:
				return
			}
		}
	}()
	return B, nil
}

func (B *redisBroker) Publish(correlationID string, P *BroadcastPayload) error {
	body, err := json.Marshal(P)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p := B.client.Pipeline()
	p.Set(resultKey(correlationID), body, B.ttl)
	p.Publish(Channel, correlationID)
	if _, err := p.Exec(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (B *redisBroker) Take(correlationID string) (*BroadcastPayload, error) {
	key := resultKey(correlationID)
	p := B.client.Pipeline()
	get := p.Get(key)
	p.Del(key)
	if _, err := p.Exec(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	data, err := get.Bytes()
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	P := new(BroadcastPayload)
	if err := json.Unmarshal(data, P); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return P, nil
}

func (B *redisBroker) Announcements() <-chan string { return B.ann }

func (B *redisBroker) Close() error {
	close(B.done)
	B.pubsub.Close()
	return B.client.Close()
}
