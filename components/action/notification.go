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

package action

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/mqtt"
)

func init() {
	Registry.Add(&SendNotificationHandler{})
}

// SendNotificationHandler emits a notification with resolved subject and
// message. When the `mqtt.server` property is configured the notification is
// published to a broker topic, otherwise the delivery is simulated through
// the logger. Either way a generated notification id is returned.
type SendNotificationHandler struct {
	baseHandler
	clientMu sync.Mutex
	client   *mqtt.Client
}

func (x *SendNotificationHandler) Type() string {
	return TypeSendNotification
}

func (x *SendNotificationHandler) New() types.ActionHandler {
	return &SendNotificationHandler{}
}

func (x *SendNotificationHandler) RequiredParameters() []string {
	return []string{"message"}
}

func (x *SendNotificationHandler) Execute(ctx context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	notificationId := newId("ntf")
	envelope := map[string]interface{}{
		"notificationId": notificationId,
		"recipient":      paramString(params, "recipient"),
		"subject":        paramString(params, "subject"),
		"message":        paramString(params, "message"),
		"timestamp":      time.Now(),
	}

	if server := x.config.Property("mqtt.server"); server != "" {
		client, err := x.broker(ctx, server)
		if err != nil {
			return nil, err
		}
		topic := paramString(params, "topic")
		if topic == "" {
			topic = "ruleact/notifications/" + ectx.EntityType
		}
		payload, err := json.Marshal(map[string]interface{}{
			"notification":  envelope,
			"entityId":      ectx.EntityId,
			"entityType":    ectx.EntityType,
			"correlationId": ectx.CorrelationId,
		})
		if err != nil {
			return nil, err
		}
		if err := client.Publish(topic, payload); err != nil {
			return nil, err
		}
		envelope["topic"] = topic
	} else {
		x.logger().Printf("notification sent. id=%s recipient=%s subject=%s",
			notificationId, envelope["recipient"], envelope["subject"])
	}
	return envelope, nil
}

// broker connects lazily so an unused handler never dials.
func (x *SendNotificationHandler) broker(ctx context.Context, server string) (*mqtt.Client, error) {
	x.clientMu.Lock()
	defer x.clientMu.Unlock()
	if x.client != nil {
		return x.client, nil
	}
	client, err := mqtt.NewClient(ctx, mqtt.Config{
		Server:   server,
		Username: x.config.Property("mqtt.username"),
		Password: x.config.Property("mqtt.password"),
		ClientID: x.config.Property("mqtt.clientId"),
	})
	if err != nil {
		return nil, err
	}
	x.client = client
	return client, nil
}

func (x *SendNotificationHandler) Destroy() {
	x.clientMu.Lock()
	defer x.clientMu.Unlock()
	if x.client != nil {
		_ = x.client.Close()
		x.client = nil
	}
}
