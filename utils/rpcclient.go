package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/rpc/v2/json2"
)

type HttpClient struct {
	client *resty.Client
	url    string
}

// NewHttpClient to get http client instance
func NewHttpClient(url string) *HttpClient {
	return &HttpClient{
		client: resty.New().SetTimeout(60 * time.Second),
		url:    url,
	}
}

// RPCCall sends a JSON-RPC 2.0 request and decodes the whole response
// envelope into rpcResponse.
func (client *HttpClient) RPCCall(
	ctx context.Context,
	method string,
	params interface{},
	rpcResponse interface{},
) error {
	payload, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return err
	}

	resp, err := client.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(client.url)
	if err != nil {
		return err
	}
	body := resp.Body()
	if resp.StatusCode() != http.StatusOK && len(body) == 0 {
		return fmt.Errorf("rpc %s: status code %d", method, resp.StatusCode())
	}
	return json.Unmarshal(body, rpcResponse)
}
