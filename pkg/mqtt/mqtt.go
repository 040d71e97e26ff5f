package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/nergy-se/climate-controller/pkg/state"
	"github.com/sirupsen/logrus"
)

// Publisher sends tick observations to <topic>/state.
type Publisher interface {
	Publish(ctx context.Context, obs *state.Observation) error
}

func stateTopic(topic string) string {
	return topic + "/state"
}

// Broker is an embedded broker publishing through its inline client.
type Broker struct {
	server *mqttv2.Server
	tcp    *listeners.TCP
	topic  string
}

// Start runs an embedded broker until ctx is done. An empty address
// starts it without a TCP listener.
func Start(ctx context.Context, wg *sync.WaitGroup, address, topic string) (*Broker, error) {
	server := mqttv2.New(&mqttv2.Options{
		InlineClient: true,
	})

	// Allow all connections.
	err := server.AddHook(new(auth.AllowHook), nil)
	if err != nil {
		return nil, err
	}

	b := &Broker{server: server, topic: topic}
	if address != "" {
		b.tcp = listeners.NewTCP(listeners.Config{ID: "t1", Address: address})
		err = server.AddListener(b.tcp)
		if err != nil {
			return nil, err
		}
	}

	err = server.Serve()
	if err != nil {
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		server.Close()
	}()
	return b, nil
}

// Addr is the bound listener address.
func (b *Broker) Addr() string {
	if b.tcp == nil {
		return ""
	}
	return b.tcp.Address()
}

func (b *Broker) Server() *mqttv2.Server {
	return b.server
}

func (b *Broker) Publish(ctx context.Context, obs *state.Observation) error {
	payload, err := json.Marshal(obs)
	if err != nil {
		return err
	}
	return b.server.Publish(stateTopic(b.topic), payload, true, 0)
}

// Client publishes to an external broker.
type Client struct {
	client paho.Client
	topic  string
}

func Connect(broker, clientID, topic string) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logrus.Warnf("mqtt: connection lost: %s", err)
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt: timeout connecting to %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: error connecting to %s: %w", broker, err)
	}
	return &Client{client: client, topic: topic}, nil
}

func (c *Client) Publish(ctx context.Context, obs *state.Observation) error {
	payload, err := json.Marshal(obs)
	if err != nil {
		return err
	}

	token := c.client.Publish(stateTopic(c.topic), 0, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return token.Error()
}

func (c *Client) Close() {
	c.client.Disconnect(250)
}
