// Package httpclient adapts an axios-shaped HTTP client to the handle
// registry and async bridge. Grounded on
// original_source/crates/perry-stdlib/src/axios.rs, whose get/post/put/
// delete/patch entry points all spawn a request on the async runtime
// and register the response (status, status text, body, headers) under
// a handle the caller later reads fields from; this package keeps that
// exact response shape (Response) and handle-registration step, built
// on net/http since the retrieval pack has no third-party HTTP client
// library with in-pack usage code to ground a replacement against.
package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/skelpo/perryc/internal/asyncbridge"
	"github.com/skelpo/perryc/internal/handle"
	"github.com/skelpo/perryc/runtime"
)

// Response is the registered handle value js_axios_response_status/
// _status_text/_data read their fields from.
type Response struct {
	Status     int
	StatusText string
	Data       string
	Headers    [][2]string
}

var defaultClient = &http.Client{}

// Request schedules method url with an optional body on the worker
// pool, registers the resulting Response in reg on success, and
// resolves the promise to the response's handle (as a number, the ABI
// shape compiled code expects a Handle in).
func Request(reg *handle.Registry, b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, method, url, body string) int {
	idx := sched.NewPromise()
	asyncbridge.Submit(b, idx, func(ctx context.Context) (handle.Handle, error) {
		var rdr io.Reader
		if body != "" {
			rdr = strings.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rdr)
		if err != nil {
			return handle.Invalid, err
		}
		resp, err := defaultClient.Do(req)
		if err != nil {
			return handle.Invalid, err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return handle.Invalid, err
		}
		headers := make([][2]string, 0, len(resp.Header))
		for k, vs := range resp.Header {
			for _, v := range vs {
				headers = append(headers, [2]string{k, v})
			}
		}
		h := reg.Register(&Response{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Data:       string(data),
			Headers:    headers,
		})
		return h, nil
	}, func(h handle.Handle) runtime.JSValue {
		return runtime.NumberValue(float64(h))
	}, func(err error) runtime.JSValue {
		return runtime.StringValue(runtime.NewString(arena, []byte(err.Error())))
	})
	return idx
}

// Get is Request("GET", url, "").
func Get(reg *handle.Registry, b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, url string) int {
	return Request(reg, b, sched, arena, http.MethodGet, url, "")
}

// Post is Request("POST", url, data).
func Post(reg *handle.Registry, b *asyncbridge.Bridge, sched *runtime.Scheduler, arena *runtime.Arena, url, data string) int {
	return Request(reg, b, sched, arena, http.MethodPost, url, data)
}

// ResponseStatus reads the status field js_axios_response_status exposes.
func ResponseStatus(reg *handle.Registry, h handle.Handle) (int, bool) {
	r, ok := handle.GetAs[*Response](reg, h)
	if !ok {
		return 0, false
	}
	return r.Status, true
}

// ResponseData reads the body field js_axios_response_data exposes.
func ResponseData(reg *handle.Registry, h handle.Handle) (string, bool) {
	r, ok := handle.GetAs[*Response](reg, h)
	if !ok {
		return "", false
	}
	return r.Data, true
}
