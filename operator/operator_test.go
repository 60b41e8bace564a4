package operator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foldy-project/charmm/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

//hub is an in-memory stand-in for redis shared by several brokers.
type hub struct {
	mu   sync.Mutex
	data map[string]*BroadcastPayload
	subs []chan string
}

type memBroker struct {
	h   *hub
	ann chan string
}

func (h *hub) broker() Broker {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.data == nil {
		h.data = make(map[string]*BroadcastPayload)
	}
	ch := make(chan string, 16)
	h.subs = append(h.subs, ch)
	return &memBroker{h, ch}
}

func (M *memBroker) Publish(id string, P *BroadcastPayload) error {
	M.h.mu.Lock()
	defer M.h.mu.Unlock()
	M.h.data[id] = P
	for _, s := range M.h.subs {
		s <- id
	}
	return nil
}

func (M *memBroker) Take(id string) (*BroadcastPayload, error) {
	M.h.mu.Lock()
	defer M.h.mu.Unlock()
	P, ok := M.h.data[id]
	if !ok {
		return nil, fmt.Errorf("redis: nil")
	}
	delete(M.h.data, id)
	return P, nil
}

func (M *memBroker) Announcements() <-chan string { return M.ann }
func (M *memBroker) Close() error                 { return nil }

const testID = "0123456789abcdef"

func newTestServer(Te *testing.T, C *Config, broker Broker) (*Server, *fake.Clientset, *httptest.Server) {
	if C == nil {
		C = new(Config)
	}
	C.SetDefaults()
	client := fake.NewSimpleClientset()
	S := NewServer(C, &Pods{Client: client, Config: C}, broker)
	S.NewID = func() string { return testID }
	srv := httptest.NewServer(S)
	Te.Cleanup(srv.Close)
	return S, client, srv
}

type runResponse struct {
	status int
	header http.Header
	body   string
}

func startRun(Te *testing.T, addr, body string) <-chan runResponse {
	ret := make(chan runResponse, 1)
	go func() {
		resp, err := http.Post(addr+"/run", "application/json", strings.NewReader(body))
		if !assert.NoError(Te, err) {
			ret <- runResponse{}
			return
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		ret <- runResponse{resp.StatusCode, resp.Header, string(data)}
	}()
	return ret
}

func waitPending(Te *testing.T, S *Server) {
	require.Eventually(Te, func() bool { return S.Pending() == 1 }, 2*time.Second, 5*time.Millisecond)
}

const run1aki = `{"pdb_id": "1AKI", "steps": 10, "model_id": 1, "chain_id": "A", "primary": "KVFGR", "mask": "+++++"}`

func TestNormalize(Te *testing.T) {
	R := &RunConfig{PDBID: " 1AKI", Steps: 10, ChainID: "A"}
	require.NoError(Te, R.Normalize())
	assert.Equal(Te, "1aki", R.PDBID)
	assert.Equal(Te, -1, R.Seed)
	assert.Equal(Te, "1aki_minim.tar.gz", R.ResultName())

	for _, c := range []struct {
		R   RunConfig
		msg string
	}{
		{RunConfig{PDBID: "1aki", Steps: 1, ChainID: "A"}, "expected >1 steps, got 1"},
		{RunConfig{PDBID: "1aki", Steps: 10}, "missing chain_id"},
		{RunConfig{PDBID: "1aki", Steps: 10, ChainID: "A", Seed: -2}, "invalid seed"},
		{RunConfig{Steps: 10, ChainID: "A"}, "missing pdb_id"},
	} {
		assert.EqualError(Te, c.R.Normalize(), c.msg)
	}
	R = &RunConfig{PDBID: "1aki", Steps: 10, ChainID: "A", Seed: 1}
	require.NoError(Te, R.Normalize())
	assert.Equal(Te, 1, R.Seed)
}

func TestPodObject(Te *testing.T) {
	C := new(Config)
	C.SetDefaults()
	P := &Pods{Config: C}
	pod := P.Object(&RunConfig{PDBID: "1aki", Steps: 10, ModelID: 1, ChainID: "A", Seed: -1}, testID)
	assert.Equal(Te, "foldy-sim-1aki-01234567", pod.Name)
	assert.Equal(Te, map[string]string{"app": "foldy-sim", "correlation_id": testID}, pod.Labels)
	c := pod.Spec.Containers[0]
	assert.Equal(Te, "thavlik/foldy-client:latest", c.Image)
	assert.Equal(Te, []string{"simulate", "--pdb_id", "1aki", "--model_id", "1", "--chain_id", "A",
		"--primary", "", "--mask", "", "--correlation_id", testID, "--nsteps", "10", "--seed", "-1"}, c.Command)
	assert.Equal(Te, "foldy-operator:8090", c.Env[0].Value)
	assert.Equal(Te, "2Gi", c.Resources.Limits.Memory().String())
	assert.Equal(Te, "/root/.aws", c.VolumeMounts[0].MountPath)
	assert.Equal(Te, v1.RestartPolicyNever, pod.Spec.RestartPolicy)
}

func TestPrune(Te *testing.T) {
	pod := func(name, app string, phase v1.PodPhase) *v1.Pod {
		return &v1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default", Labels: map[string]string{"app": app}},
			Status:     v1.PodStatus{Phase: phase},
		}
	}
	client := fake.NewSimpleClientset(
		pod("a", "foldy-sim", v1.PodSucceeded),
		pod("b", "foldy-sim", v1.PodFailed),
		pod("c", "foldy-sim", v1.PodRunning),
		pod("d", "other", v1.PodSucceeded),
	)
	C := new(Config)
	C.SetDefaults()
	n, err := (&Pods{Client: client, Config: C}).Prune(context.Background())
	require.NoError(Te, err)
	assert.Equal(Te, 2, n)
	list, err := client.CoreV1().Pods("default").List(context.Background(), metav1.ListOptions{})
	require.NoError(Te, err)
	assert.Len(Te, list.Items, 2)
}

func TestRunComplete(Te *testing.T) {
	S, client, srv := newTestServer(Te, nil, nil)
	done := startRun(Te, srv.URL, run1aki)
	waitPending(Te, S)
	require.Eventually(Te, func() bool {
		list, err := client.CoreV1().Pods("default").List(context.Background(), metav1.ListOptions{})
		return err == nil && len(list.Items) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(Te, report.NewClient(srv.URL).Complete(context.Background(), testID, "1aki_minim.tar.gz", strings.NewReader("bundle")))
	resp := <-done
	assert.Equal(Te, http.StatusOK, resp.status)
	assert.Equal(Te, "bundle", resp.body)
	assert.Equal(Te, "application/gzip", resp.header.Get("Content-Type"))
	assert.Equal(Te, "attachment; filename=1aki_minim.tar.gz", resp.header.Get("Content-Disposition"))
	assert.Equal(Te, 0, S.Pending())
	list, err := client.CoreV1().Pods("default").List(context.Background(), metav1.ListOptions{})
	require.NoError(Te, err)
	assert.Empty(Te, list.Items)
}

func TestRunError(Te *testing.T) {
	S, _, srv := newTestServer(Te, nil, nil)
	done := startRun(Te, srv.URL, run1aki)
	waitPending(Te, S)
	require.NoError(Te, report.NewClient(srv.URL).Error(context.Background(), testID, "pdb '1aki' not found"))
	resp := <-done
	assert.Equal(Te, http.StatusInternalServerError, resp.status)
	assert.Equal(Te, "pdb '1aki' not found", resp.body)
}

func TestRunBadRequest(Te *testing.T) {
	_, _, srv := newTestServer(Te, nil, nil)
	for body, msg := range map[string]string{
		`{"pdb_id": "1aki", "steps": 1, "chain_id": "A"}`:               "expected >1 steps, got 1",
		`{"pdb_id": "1aki", "steps": 10}`:                               "missing chain_id",
		`{"pdb_id": "1aki", "steps": 10, "chain_id": "A", "seed": -2}`: "invalid seed",
	} {
		resp := <-startRun(Te, srv.URL, body)
		assert.Equal(Te, http.StatusBadRequest, resp.status)
		assert.Equal(Te, msg, resp.body)
	}
	resp := <-startRun(Te, srv.URL, "{")
	assert.Equal(Te, http.StatusBadRequest, resp.status)
}

func TestRunTimeout(Te *testing.T) {
	_, client, srv := newTestServer(Te, &Config{Timeout: 50 * time.Millisecond}, nil)
	resp := <-startRun(Te, srv.URL, run1aki)
	assert.Equal(Te, http.StatusInternalServerError, resp.status)
	assert.Equal(Te, "timed out after 50ms", resp.body)
	list, err := client.CoreV1().Pods("default").List(context.Background(), metav1.ListOptions{})
	require.NoError(Te, err)
	assert.Empty(Te, list.Items)
}

func TestCallbacksWithoutRun(Te *testing.T) {
	_, _, srv := newTestServer(Te, nil, nil)
	resp, err := http.Post(srv.URL+"/complete", "text/plain", strings.NewReader(""))
	require.NoError(Te, err)
	resp.Body.Close()
	assert.Equal(Te, http.StatusBadRequest, resp.StatusCode)

	//nobody is waiting and there are no other replicas
	err = report.NewClient(srv.URL).Error(context.Background(), "nobody", "boom")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "request not found")

	resp, err = http.Post(srv.URL+"/error", "application/json", strings.NewReader(`{"correlation_id": "x"}`))
	require.NoError(Te, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(Te, "missing msg", string(data))
}

func TestRemoteFulfilment(Te *testing.T) {
	h := new(hub)
	A, _, srvA := newTestServer(Te, nil, h.broker())
	_, _, srvB := newTestServer(Te, nil, h.broker())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go A.Listen(ctx)

	done := startRun(Te, srvA.URL, run1aki)
	waitPending(Te, A)
	//the pod calls back the wrong replica
	require.NoError(Te, report.NewClient(srvB.URL).Complete(context.Background(), testID, "x.tar.gz", strings.NewReader("remote bundle")))
	resp := <-done
	assert.Equal(Te, http.StatusOK, resp.status)
	assert.Equal(Te, "remote bundle", resp.body)

	done = startRun(Te, srvA.URL, run1aki)
	waitPending(Te, A)
	require.NoError(Te, report.NewClient(srvB.URL).Error(context.Background(), testID, "engine crashed"))
	resp = <-done
	assert.Equal(Te, http.StatusInternalServerError, resp.status)
	assert.Equal(Te, "engine crashed", resp.body)
}

func TestSubmit(Te *testing.T) {
	S, _, srv := newTestServer(Te, nil, nil)
	ret := make(chan []byte, 1)
	errc := make(chan error, 1)
	go func() {
		data, err := Submit(context.Background(), nil, srv.URL, &RunConfig{PDBID: "1aki", Steps: 10, ChainID: "A"})
		ret <- data
		errc <- err
	}()
	waitPending(Te, S)
	require.NoError(Te, report.NewClient(srv.URL).Complete(context.Background(), testID, "x", strings.NewReader("ok")))
	assert.Equal(Te, []byte("ok"), <-ret)
	assert.NoError(Te, <-errc)

	_, err := Submit(context.Background(), nil, srv.URL, &RunConfig{PDBID: "1aki", Steps: 1, ChainID: "A"})
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "expected >1 steps, got 1")
}

func TestDecodeConfig(Te *testing.T) {
	Te.Setenv("REDIS_URI", "redis:6379")
	C, err := DecodeConfig(strings.NewReader("namespace = \"sim\"\nport = 9000\ntimeout = \"90s\"\n"))
	require.NoError(Te, err)
	assert.Equal(Te, "sim", C.Namespace)
	assert.Equal(Te, 9000, C.Port)
	assert.Equal(Te, 90*time.Second, C.Timeout)
	assert.Equal(Te, time.Minute, C.ResultTTL)
	assert.Equal(Te, "foldy-operator:9000", C.OperatorAddress)
	assert.Equal(Te, "redis:6379", C.RedisURI)
	assert.Equal(Te, int64(1024*1024), C.MultipartMemory)

	_, err = DecodeConfig(strings.NewReader("timeout = \"soon\"\n"))
	assert.Error(Te, err)
}
