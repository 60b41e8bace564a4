package operator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errRequestNotFound = errors.New("request not found")

type result struct {
	data []byte
	err  error
}

//Server is the operator HTTP service.
type Server struct {
	Config *Config
	Pods   *Pods
	Broker Broker //nil runs a single replica
	NewID  func() string

	mu       sync.Mutex
	requests map[string]chan<- result
	mux      *http.ServeMux
}

//NewServer returns a server launching pods through pods. broker may be nil.
func NewServer(C *Config, pods *Pods, broker Broker) *Server {
	if C == nil {
		C = new(Config)
	}
	C.SetDefaults()
	S := &Server{
		Config:   C,
		Pods:     pods,
		Broker:   broker,
		NewID:    func() string { return uuid.New().String() },
		requests: make(map[string]chan<- result),
		mux:      http.NewServeMux(),
	}
	S.mux.HandleFunc("/run", S.handleRun)
	S.mux.HandleFunc("/complete", S.handleComplete)
	S.mux.HandleFunc("/error", S.handleError)
	return S
}

//ServeHTTP serves /run, /complete and /error.
func (S *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	S.mux.ServeHTTP(w, r)
}

//Pending returns the number of runs waiting for their pods.
func (S *Server) Pending() int {
	S.mu.Lock()
	defer S.mu.Unlock()
	return len(S.requests)
}

func (S *Server) register(correlationID string) <-chan result {
	ch := make(chan result, 1)
	S.mu.Lock()
	S.requests[correlationID] = ch
	S.mu.Unlock()
	return ch
}

func (S *Server) unregister(correlationID string) {
	S.mu.Lock()
	delete(S.requests, correlationID)
	S.mu.Unlock()
}

//fulfil hands res to the local run waiting for correlationID.
func (S *Server) fulfil(correlationID string, res result) error {
	S.mu.Lock()
	ch, ok := S.requests[correlationID]
	if ok {
		delete(S.requests, correlationID)
	}
	S.mu.Unlock()
	if !ok {
		return errRequestNotFound
	}
	ch <- res
	close(ch)
	return nil
}

//deliver fulfils locally if the run is ours, otherwise relays the result
//to the other replicas.
func (S *Server) deliver(correlationID string, res result) error {
	err := S.fulfil(correlationID, res)
	if err != errRequestNotFound {
		log.Printf("%s fulfilled locally", correlationID)
		return err
	}
	if S.Broker == nil {
		return err
	}
	P := &BroadcastPayload{Data: res.data, Success: res.err == nil}
	if res.err != nil {
		P.ErrorMsg = res.err.Error()
	}
	if err := S.Broker.Publish(correlationID, P); err != nil {
		return fmt.Errorf("fulfil remote: %w", err)
	}
	log.Printf("%s fulfilled remotely", correlationID)
	return nil
}

func (S *Server) handleAnnouncement(correlationID string) error {
	S.mu.Lock()
	_, ok := S.requests[correlationID]
	S.mu.Unlock()
	if !ok {
		return errRequestNotFound
	}
	P, err := S.Broker.Take(correlationID)
	if err != nil {
		S.fulfil(correlationID, result{err: err})
		return err
	}
	res := result{data: P.Data}
	if !P.Success {
		res = result{err: errors.New(P.ErrorMsg)}
	}
	if err := S.fulfil(correlationID, res); err != nil {
		return err
	}
	if P.Success {
		log.Printf("%s fulfilled from remote", correlationID)
	} else {
		log.Printf("%s remote error: %s", correlationID, P.ErrorMsg)
	}
	return nil
}

//Listen relays the results announced by other replicas to the runs
//waiting here, until ctx is done. It returns at once without a broker.
func (S *Server) Listen(ctx context.Context) {
	if S.Broker == nil {
		return
	}
	ann := S.Broker.Announcements()
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-ann:
			if !ok {
				return
			}
			if err := S.handleAnnouncement(id); err != nil && err != errRequestNotFound {
				log.Printf("Error handling broadcast payload: %v", err)
			}
		}
	}
}

//Run launches a pod simulating R and waits for its results.
func (S *Server) Run(ctx context.Context, R *RunConfig) ([]byte, error) {
	correlationID := S.NewID()
	log.Printf("Running experiment %s, correlationID=%s", R.PDBID, correlationID)
	ch := S.register(correlationID)
	defer S.unregister(correlationID)
	name, err := S.Pods.Create(ctx, R, correlationID)
	if err != nil {
		return nil, err
	}
	defer S.Pods.Delete(context.Background(), name)
	timer := time.NewTimer(S.Config.Timeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.data, res.err
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %v", S.Config.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (S *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	status := http.StatusInternalServerError
	if err := func() error {
		if r.Method != http.MethodPost {
			status = http.StatusMethodNotAllowed
			return fmt.Errorf("expected POST, got %s", r.Method)
		}
		R := new(RunConfig)
		if err := json.NewDecoder(r.Body).Decode(R); err != nil {
			status = http.StatusBadRequest
			return fmt.Errorf("unmarshal: %w", err)
		}
		if err := R.Normalize(); err != nil {
			status = http.StatusBadRequest
			return err
		}
		log.Printf("Received run request, pdb=%s, seed=%d", R.PDBID, R.Seed)
		body, err := S.Run(r.Context(), R)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Disposition", "attachment; filename="+R.ResultName())
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Content-Type", "application/gzip")
		w.Write(body)
		return nil
	}(); err != nil {
		log.Printf("%v: %v", r.RequestURI, err)
		w.WriteHeader(status)
		w.Write([]byte(err.Error()))
	}
}

func (S *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	status := http.StatusInternalServerError
	if err := func() error {
		correlationID := r.URL.Query().Get("correlation_id")
		if correlationID == "" {
			status = http.StatusBadRequest
			return fmt.Errorf("missing correlation_id")
		}
		log.Printf("Received completion request, correlationID=%s", correlationID)
		if err := r.ParseMultipartForm(S.Config.MultipartMemory); err != nil {
			return fmt.Errorf("multipart form: %w", err)
		}
		file, _, err := r.FormFile("data")
		if err != nil {
			return fmt.Errorf("form file: %w", err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		//the pod doesn't need to wait for the delivery
		go func() {
			if err := S.deliver(correlationID, result{data: data}); err != nil {
				log.Printf("Delivering %s: %v", correlationID, err)
			}
		}()
		return nil
	}(); err != nil {
		log.Printf("%v: %v", r.RequestURI, err)
		w.WriteHeader(status)
		w.Write([]byte(err.Error()))
	}
}

func (S *Server) handleError(w http.ResponseWriter, r *http.Request) {
	if err := func() error {
		doc := make(map[string]interface{})
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			return fmt.Errorf("json: %w", err)
		}
		msg, ok := doc["msg"].(string)
		if !ok {
			return fmt.Errorf("missing msg")
		}
		correlationID, ok := doc["correlation_id"].(string)
		if !ok {
			return fmt.Errorf("missing correlation_id")
		}
		log.Printf("/error %s", msg)
		return S.deliver(correlationID, result{err: errors.New(msg)})
	}(); err != nil {
		log.Printf("%v: %v", r.RequestURI, err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
	}
}

//ListenAndServe serves on the configured port until ctx is done.
func (S *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", S.Config.Port), Handler: S}
	go S.Listen(ctx)
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	log.Printf("Listening on %d", S.Config.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
