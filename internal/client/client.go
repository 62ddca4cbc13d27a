package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/pkg/errors"
)

type Client interface {
	EmployeesRead(ctx context.Context) (data.Employees, error)
	EmployeeRead(ctx context.Context, empNo int32) (*data.Employee, error)
	ReportRead(ctx context.Context, rate float64) (*data.Report, error)
	CacheClear(ctx context.Context) error
	CountersRead(ctx context.Context) (*data.BlockCounters, error)
	CountersClear(ctx context.Context) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol   string
		address    string
		port       string
		timeout    int64
		sslCaFile  string
		sslCrtFile string
		sslKeyFile string
	}
	address string
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{
		Client: &http.Client{},
		Logger: utilities.NewNopLogger(),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *client) doRequest(ctx context.Context, uri, method string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		uri = uri + "?" + params.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, nil)
	if err != nil {
		return nil, err
	}
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Add(data.HeaderCorrelationId, correlationId)
	}
	response, err := c.Do(request)
	if err != nil {
		return nil, data.Wrapf(data.ErrIO, err, "error while executing request")
	}
	bytes, err := io.ReadAll(response.Body)
	defer response.Body.Close()
	if err != nil {
		return nil, data.Wrapf(data.ErrIO, err, "error while reading response")
	}
	switch response.StatusCode {
	default:
		var e data.ErrorResponse

		if err := json.Unmarshal(bytes, &e); err != nil || e.Error == "" {
			return nil, errors.Errorf("status code: %d; %s",
				response.StatusCode, string(bytes))
		}
		kind := data.ErrIO
		switch response.StatusCode {
		case http.StatusNotFound:
			kind = data.ErrNotFound
		case http.StatusBadRequest:
			kind = data.ErrUsage
		}
		return nil, data.NewError(kind, errors.New(e.Error))
	case http.StatusOK, http.StatusNoContent:
		return bytes, nil
	}
}

func (c *client) Configure(envs map[string]string) error {
	c.config.protocol = "http"
	c.config.port = "8080"
	c.config.timeout = 10
	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok && port != "" {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok && protocol != "" {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return data.Wrapf(data.ErrUsage, err, "invalid CLIENT_TIMEOUT")
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return data.Errorf(data.ErrUsage, "unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	tlsConfig, err := getTlsConfig(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = tlsConfig
	c.Debug(ctx, "client configured for: %s", c.address)
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) response(ctx context.Context, uri string, params url.Values) (*data.Response, error) {
	bytes, err := c.doRequest(ctx, uri, http.MethodGet, params)
	if err != nil {
		return nil, err
	}
	response := &data.Response{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) EmployeesRead(ctx context.Context) (data.Employees, error) {
	response, err := c.response(ctx, c.address+data.RouteEmployees, nil)
	if err != nil {
		return nil, err
	}
	return response.Employees, nil
}

func (c *client) EmployeeRead(ctx context.Context, empNo int32) (*data.Employee, error) {
	uri := fmt.Sprintf(c.address+data.RouteEmployeesEmpNof, empNo)
	response, err := c.response(ctx, uri, nil)
	if err != nil {
		return nil, err
	}
	return response.Employee, nil
}

func (c *client) ReportRead(ctx context.Context, rate float64) (*data.Report, error) {
	params := url.Values{data.ParameterRate: {strconv.FormatFloat(rate, 'f', -1, 64)}}
	response, err := c.response(ctx, c.address+data.RouteReport, params)
	if err != nil {
		return nil, err
	}
	return response.Report, nil
}

func (c *client) CacheClear(ctx context.Context) error {
	if _, err := c.doRequest(ctx, c.address+data.RouteCache, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) CountersRead(ctx context.Context) (*data.BlockCounters, error) {
	bytes, err := c.doRequest(ctx, c.address+data.RouteCounters, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.BlockCounters{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) CountersClear(ctx context.Context) error {
	if _, err := c.doRequest(ctx, c.address+data.RouteCounters, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	bytes, err := c.doRequest(ctx, c.address+data.RouteTimers, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Timers{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	if _, err := c.doRequest(ctx, c.address+data.RouteTimers, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}
