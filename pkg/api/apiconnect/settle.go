package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// SettleServiceName is the fully-qualified name of the SettleService.
const SettleServiceName = "settleup.v1.SettleService"

// SettleServiceSettleProcedure computes a settlement for inline expenses.
const SettleServiceSettleProcedure = "/settleup.v1.SettleService/Settle"

// SettleServiceHandler is implemented by the stateless settle service.
type SettleServiceHandler interface {
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
}

// NewSettleServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewSettleServiceHandler(svc SettleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, SettleServiceSettleProcedure, svc.Settle, handlerOptions(opts))
	return "/" + SettleServiceName + "/", mux
}

// SettleServiceClient is a client for the settle service.
type SettleServiceClient interface {
	SettleServiceHandler
}

// NewSettleServiceClient returns a client for the service at baseURL.
func NewSettleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettleServiceClient {
	return &settleServiceClient{
		settle: newClient[api.SettleRequest, api.SettleResponse](httpClient, baseURL, SettleServiceSettleProcedure, clientOptions(opts)),
	}
}

type settleServiceClient struct {
	settle *connect.Client[api.SettleRequest, api.SettleResponse]
}

func (c *settleServiceClient) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}
