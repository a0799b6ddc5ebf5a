/*
 * Copyright 2025 The Ruleact Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mqtt provides the broker client used by the notification action to
// publish rule notifications. It wraps the Paho MQTT library with connection
// retry and a minimal publish surface.
package mqtt

import (
	"context"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofrs/uuid/v5"
)

// Config is the broker client configuration.
type Config struct {
	// Server broker address, e.g. tcp://127.0.0.1:1883
	Server   string
	Username string
	Password string
	// ClientID defaults to a random ruleact-prefixed id
	ClientID string
	// MaxReconnectInterval defaults to 60s
	MaxReconnectInterval time.Duration
	QOS                  uint8
	CleanSession         bool
}

// Client is a connected MQTT publisher.
type Client struct {
	client paho.Client
	qos    byte
}

// NewClient connects to the broker, retrying until the context is done.
func NewClient(ctx context.Context, conf Config) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(conf.Server)
	opts.SetUsername(conf.Username)
	opts.SetPassword(conf.Password)
	opts.SetCleanSession(conf.CleanSession)
	if conf.ClientID == "" {
		id, _ := uuid.NewV4()
		opts.SetClientID("ruleact/" + id.String()[:8])
	} else {
		opts.SetClientID(conf.ClientID)
	}
	if conf.MaxReconnectInterval <= 0 {
		conf.MaxReconnectInterval = time.Second * 60
	}
	opts.SetMaxReconnectInterval(conf.MaxReconnectInterval)

	c := &Client{qos: conf.QOS}
	c.client = paho.NewClient(opts)
	for {
		if token := c.client.Connect(); token.Wait() && token.Error() != nil {
			select {
			case <-ctx.Done():
				return nil, token.Error()
			case <-time.After(2 * time.Second):
				// retry
			}
		} else {
			break
		}
	}
	return c, nil
}

// Publish sends a payload to the topic with the configured QOS.
func (c *Client) Publish(topic string, data []byte) error {
	if token := c.client.Publish(topic, c.qos, false, data); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (c *Client) Close() error {
	c.client.Disconnect(500)
	return nil
}
