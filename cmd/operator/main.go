//Command operator serves simulation requests, launching one pod per run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/foldy-project/charmm/operator"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

func entry(ctx context.Context, configPath, kubeconfig string, noRedis bool) error {
	C := new(operator.Config)
	if configPath != "" {
		var err error
		if C, err = operator.LoadConfig(configPath); err != nil {
			return err
		}
	}
	C.SetDefaults()
	var rc *rest.Config
	var err error
	if kubeconfig != "" {
		rc, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	} else {
		rc, err = rest.InClusterConfig()
	}
	if err != nil {
		return fmt.Errorf("kubernetes config: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(rc)
	if err != nil {
		return fmt.Errorf("clientset: %w", err)
	}
	var broker operator.Broker
	if !noRedis {
		if broker, err = operator.NewRedisBroker(C.RedisURI, C.ResultTTL); err != nil {
			return err
		}
		defer broker.Close()
	}
	pods := &operator.Pods{Client: clientset, Config: C}
	if n, err := pods.Prune(ctx); err != nil {
		log.Printf("Warning: failed to prune pods: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d finished pods", n)
	}
	return operator.NewServer(C, pods, broker).ListenAndServe(ctx)
}

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	kubeconfig := flag.String("kubeconfig", "", "kubeconfig to use outside the cluster")
	noRedis := flag.Bool("single", false, "run a single replica, without redis")
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := entry(ctx, *configPath, *kubeconfig, *noRedis); err != nil {
		log.Fatal(err)
	}
}
