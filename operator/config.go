//Package operator runs simulations on demand. A POST /run launches a pod
//running the simulation client and waits for it to call back with its
//results on /complete, or with a failure on /error. When several operator
//replicas run behind one address, callbacks that reach the wrong replica
//are relayed through redis.
package operator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
)

//Config is the operator configuration.
type Config struct {
	Namespace       string        `toml:"namespace"`
	Image           string        `toml:"image"`
	AppLabel        string        `toml:"app_label"`
	OperatorAddress string        `toml:"operator_address"` //how pods reach us
	Port            int           `toml:"port"`
	RedisURI        string        `toml:"redis_uri"`
	Timeout         time.Duration `toml:"timeout"`
	MultipartMemory int64         `toml:"multipart_memory"`
	ResultTTL       time.Duration `toml:"result_ttl"` //how long relayed results are kept
}

//SetDefaults fills the zero fields with the usual values. REDIS_URI in
//the environment overrides an empty RedisURI.
func (C *Config) SetDefaults() {
	if C.Namespace == "" {
		C.Namespace = "default"
	}
	if C.Image == "" {
		C.Image = "thavlik/foldy-client:latest"
	}
	if C.AppLabel == "" {
		C.AppLabel = "foldy-sim"
	}
	if C.Port == 0 {
		C.Port = 8090
	}
	if C.OperatorAddress == "" {
		C.OperatorAddress = fmt.Sprintf("foldy-operator:%d", C.Port)
	}
	if C.RedisURI == "" {
		C.RedisURI = os.Getenv("REDIS_URI")
	}
	if C.RedisURI == "" {
		C.RedisURI = "localhost:6379"
	}
	if C.Timeout == 0 {
		C.Timeout = 240 * time.Minute
	}
	if C.MultipartMemory == 0 {
		C.MultipartMemory = 1024 * 1024
	}
	if C.ResultTTL == 0 {
		C.ResultTTL = time.Minute
	}
}

//DecodeConfig reads a TOML configuration. Durations are written as
//strings ("90s", "4h").
func DecodeConfig(r io.Reader) (*Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("operator config: %w", err)
	}
	//go-toml v1 doesn't decode durations, take them out first.
	durations := map[string]time.Duration{}
	for _, k := range []string{"timeout", "result_ttl"} {
		v, ok := tree.Get(k).(string)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("operator config: %s: %w", k, err)
		}
		durations[k] = d
		if err := tree.Delete(k); err != nil {
			return nil, err
		}
	}
	C := new(Config)
	if err := tree.Unmarshal(C); err != nil {
		return nil, fmt.Errorf("operator config: %w", err)
	}
	C.Timeout = durations["timeout"]
	C.ResultTTL = durations["result_ttl"]
	C.SetDefaults()
	return C, nil
}

//LoadConfig reads a TOML configuration from the file path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeConfig(f)
}
