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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ruleact/ruleact/api/types"
	"github.com/ruleact/ruleact/utils/str"
	"golang.org/x/net/proxy"
)

func init() {
	Registry.Add(&CallApiHandler{})
}

const (
	contentTypeKey  = "Content-Type"
	jsonContentType = "application/json"
	// response bodies are capped, an external API cannot exhaust memory
	maxResponseSize = 4 << 20
)

// CallApiHandler performs an HTTP call with resolved url, headers and body.
// The per-action deadline bounds the whole request, a network error surfaces
// as an action failure and never escapes the executor. An optional SOCKS5 or
// HTTP proxy is taken from the `proxy.scheme` and `proxy.address` properties.
type CallApiHandler struct {
	baseHandler
	clientOnce sync.Once
	client     *http.Client
}

func (x *CallApiHandler) Type() string {
	return TypeCallApi
}

func (x *CallApiHandler) New() types.ActionHandler {
	return &CallApiHandler{}
}

func (x *CallApiHandler) RequiredParameters() []string {
	return []string{"url"}
}

func (x *CallApiHandler) Execute(ctx context.Context, params types.Configuration, _ *types.ExecutionContext) (interface{}, error) {
	endpoint := paramString(params, "url")
	method := strings.ToUpper(paramString(params, "method"))
	if method == "" {
		method = http.MethodPost
	}

	var reader io.Reader
	var bodyIsJson bool
	switch body := params["body"].(type) {
	case nil:
	case string:
		reader = strings.NewReader(body)
	default:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
		bodyIsJson = true
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if headers, ok := params["headers"].(map[string]interface{}); ok {
		for k, v := range headers {
			req.Header.Set(k, str.ToString(v))
		}
	}
	if bodyIsJson && req.Header.Get(contentTypeKey) == "" {
		req.Header.Set(contentTypeKey, jsonContentType)
	}

	resp, err := x.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("http request failed. status=%s url=%s", resp.Status, endpoint)
	}

	var body interface{} = string(raw)
	if strings.Contains(resp.Header.Get(contentTypeKey), jsonContentType) {
		var parsed interface{}
		if json.Unmarshal(raw, &parsed) == nil {
			body = parsed
		}
	}
	return map[string]interface{}{
		"status":     resp.Status,
		"statusCode": resp.StatusCode,
		"body":       body,
	}, nil
}

// httpClient builds the shared client once. The request context carries the
// per-action deadline, the client itself sets no timeout.
func (x *CallApiHandler) httpClient() *http.Client {
	x.clientOnce.Do(func() {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		scheme := x.config.Property("proxy.scheme")
		address := x.config.Property("proxy.address")
		if scheme != "" && address != "" {
			if scheme == "socks5" {
				var auth *proxy.Auth
				if user := x.config.Property("proxy.username"); user != "" {
					auth = &proxy.Auth{User: user, Password: x.config.Property("proxy.password")}
				}
				if dialer, err := proxy.SOCKS5("tcp", address, auth, proxy.Direct); err == nil {
					transport.Dial = dialer.Dial
				}
			} else {
				transport.Proxy = http.ProxyURL(&url.URL{Scheme: scheme, Host: address})
			}
		}
		x.client = &http.Client{Transport: transport}
	})
	return x.client
}
