package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/logic"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
	}
	ctx    context.Context
	cancel context.CancelFunc
	*mux.Router
	*http.Server
	cache   internal.Clearer
	logic   *logic.Logic
	counter utilities.Counter
	timers  utilities.Timers
	utilities.Logger
}

// NewService serves the records of the logic's binary file; the file is
// never written through the service.
func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
		Logger:  utilities.NewNopLogger(),
		counter: utilities.NewCounter(),
		timers:  utilities.NewTimers(),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case *logic.Logic:
			s.logic = p
		case internal.Clearer:
			s.cache = p
		case utilities.Counter:
			s.counter = p
		case utilities.Timers:
			s.timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	return s
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		if !s.config.corsDisabled {
			s.Server.Handler = cors.New(cors.Options{
				AllowedOrigins:   s.config.allowedOrigins,
				AllowCredentials: s.config.allowCredentials,
				AllowedMethods:   s.config.allowedMethods,
				AllowedHeaders:   s.config.allowedHeaders,
				Debug:            s.config.corsDebug,
			}).Handler(s.Router)
		}
		close(started)
		if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		//KIM: here we're accounting for a situation where the server closes unexpectedly
		// but quickly (within a second of starting); this allows us to respond to errors such as
		// the port being already used
		return err
	case <-time.After(time.Second):
		address := net.JoinHostPort(s.config.address, s.config.port)
		s.Info(s.ctx, "started server: %s", address)
		return nil
	}
}

// timed starts a timer for group when timers are enabled; the returned
// function stops it.
func (s *service) timed(ctx context.Context, group string) func() {
	if !s.config.timersEnabled {
		return func() {}
	}
	timerIndex := s.timers.Start(group)
	return func() {
		elapsedTime := s.timers.Stop(group, timerIndex)
		s.Trace(ctx, "%s took %v", group, time.Duration(elapsedTime))
	}
}

// correlate attaches the request's correlation id (or a generated one) to
// its context and echoes it back in the response.
func (s *service) correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		correlationId := getCorrelationId(request)
		writer.Header().Set(data.HeaderCorrelationId, correlationId)
		ctx := internal.CtxWithCorrelationId(request.Context(), correlationId)
		s.Trace(ctx, "%s %s", request.Method, request.URL.Path)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-employee-pipeline\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) endpointEmployeesRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	defer s.timed(ctx, "employees_read")()
	employees, err := s.logic.EmployeesRead(ctx)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Employees: employees,
	})
	s.Trace(ctx, "executed employees_read: %d", len(employees))
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	defer s.timed(ctx, "employee_read")()
	empNo, err := empNoFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err)
		return
	}
	employee, err := s.logic.EmployeeRead(ctx, empNo)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Employee: employee,
	})
	s.Trace(ctx, "executed employee_read: %d", employee.EmpNo)
}

func (s *service) endpointReportRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	defer s.timed(ctx, "report_read")()
	rate, err := rateFromQuery(request)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	report, err := s.logic.ReportRead(ctx, rate)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Report: report,
	})
	s.Trace(ctx, "executed report_read: %g", rate)
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			handleResponse(writer, err)
			return
		}
		s.Trace(ctx, "executed cache_clear")
	}
	handleResponse(writer, nil)
}

func (s *service) endpointCountersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.counter.ReadAll())
}

func (s *service) endpointCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	s.counter.Reset()
	handleResponse(writer, nil)
	s.Trace(ctx, "executed counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	s.timers.Clear()
	handleResponse(writer, nil)
	s.Trace(ctx, "executed timers_clear")
}

func (s *service) buildRoutes() {
	s.Router.Use(s.correlate)
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.HandleFunc(data.RouteEmployees, s.endpointEmployeesRead).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteEmployeesEmpNo, s.endpointEmployeeRead).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteReport, s.endpointReportRead).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteCounters, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointCountersRead(w, r)
		case http.MethodDelete:
			s.endpointCountersClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCache, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodDelete:
			s.endpointCacheClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteTimers, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointTimersRead(w, r)
		case http.MethodDelete:
			s.endpointTimersClear(w, r)
		}
	})
}

func (s *service) Configure(envs map[string]string) error {
	s.config.port = "8080"
	s.config.shutdownTimeout = 10 * time.Second
	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok && port != "" {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins, ok := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; ok && allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods, ok := envs["SERVICE_CORS_ALLOWED_METHODS"]; ok && allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders, ok := envs["SERVICE_CORS_ALLOWED_HEADERS"]; ok && allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.logic == nil {
		return data.Errorf(data.ErrUsage, "no logic provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	s.buildRoutes()
	if err := s.launchServer(); err != nil {
		s.cancel()
		s.Wait()
		return err
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.cancel == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	return nil
}
