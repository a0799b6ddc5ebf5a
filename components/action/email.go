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
	"net/smtp"
	"strings"
	"time"

	"github.com/ruleact/ruleact/api/types"
)

// recipient list separator
const splitUserSep = ","

func init() {
	Registry.Add(&SendEmailHandler{})
}

// SendEmailHandler sends an email with resolved subject and message. When the
// `smtp.server` property is configured the message goes out through net/smtp,
// otherwise the delivery is simulated through the logger.
type SendEmailHandler struct {
	baseHandler
}

func (x *SendEmailHandler) Type() string {
	return TypeSendEmail
}

func (x *SendEmailHandler) New() types.ActionHandler {
	return &SendEmailHandler{}
}

func (x *SendEmailHandler) RequiredParameters() []string {
	return []string{"to", "subject", "message"}
}

func (x *SendEmailHandler) Execute(_ context.Context, params types.Configuration, ectx *types.ExecutionContext) (interface{}, error) {
	to := paramString(params, "to")
	subject := paramString(params, "subject")
	body := paramString(params, "message")
	from := paramString(params, "from")
	if from == "" {
		from = x.config.Property("smtp.from")
	}
	emailId := newId("eml")

	if server := x.config.Property("smtp.server"); server != "" {
		if err := x.send(server, from, to, subject, body); err != nil {
			return nil, err
		}
	} else {
		x.logger().Printf("email sent. id=%s to=%s subject=%s", emailId, to, subject)
	}
	return map[string]interface{}{
		"emailId":   emailId,
		"to":        to,
		"subject":   subject,
		"timestamp": time.Now(),
	}, nil
}

func (x *SendEmailHandler) send(addr, from, to, subject, body string) error {
	// RFC 822 message, HTML body
	msg := []byte("To: " + to + "\r\n" +
		"From: " + from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body)
	var auth smtp.Auth
	if username := x.config.Property("smtp.username"); username != "" {
		host := addr
		if i := strings.Index(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, x.config.Property("smtp.password"), host)
	}
	return smtp.SendMail(addr, auth, from, strings.Split(to, splitUserSep), msg)
}
