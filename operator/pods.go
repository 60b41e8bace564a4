package operator

import (
	"context"
	"fmt"
	"log"
	"strconv"

	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const correlationLabel = "correlation_id"

//Pods creates and removes simulation pods.
type Pods struct {
	Client kubernetes.Interface
	Config *Config
}

//PodName is the name of the pod simulating R for correlationID.
func (P *Pods) PodName(R *RunConfig, correlationID string) string {
	short := correlationID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s-%s", P.Config.AppLabel, R.PDBID, short)
}

//Object returns the pod that simulates R and reports back with
//correlationID.
func (P *Pods) Object(R *RunConfig, correlationID string) *v1.Pod {
	C := P.Config
	return &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      P.PodName(R, correlationID),
			Namespace: C.Namespace,
			Labels: map[string]string{
				"app":            C.AppLabel,
				correlationLabel: correlationID,
			},
		},
		Spec: v1.PodSpec{
			RestartPolicy: v1.RestartPolicyNever,
			Volumes: []v1.Volume{{
				Name: "aws-cred",
				VolumeSource: v1.VolumeSource{
					Secret: &v1.SecretVolumeSource{SecretName: "aws-cred"},
				},
			}},
			Containers: []v1.Container{{
				ImagePullPolicy: v1.PullAlways,
				Name:            "simulation",
				Image:           C.Image,
				Command: []string{
					"simulate",
					"--pdb_id", R.PDBID,
					"--model_id", strconv.Itoa(R.ModelID),
					"--chain_id", R.ChainID,
					"--primary", R.Primary,
					"--mask", R.Mask,
					"--correlation_id", correlationID,
					"--nsteps", strconv.Itoa(R.Steps),
					"--seed", strconv.Itoa(R.Seed),
				},
				VolumeMounts: []v1.VolumeMount{{
					Name:      "aws-cred",
					MountPath: "/root/.aws",
				}},
				Resources: v1.ResourceRequirements{
					Limits: v1.ResourceList{
						v1.ResourceCPU:    resource.MustParse("1000m"),
						v1.ResourceMemory: resource.MustParse("2Gi"),
					},
				},
				Env: []v1.EnvVar{{
					Name:  "FOLDY_OPERATOR",
					Value: C.OperatorAddress,
				}},
			}},
		},
	}
}

//Create starts the pod for R and returns its name.
func (P *Pods) Create(ctx context.Context, R *RunConfig, correlationID string) (string, error) {
	pod := P.Object(R, correlationID)
	if _, err := P.Client.CoreV1().Pods(P.Config.Namespace).Create(ctx, pod, metav1.CreateOptions{}); err != nil {
		return "", fmt.Errorf("create pod: %w", err)
	}
	log.Printf("Created pod %s", pod.Name)
	return pod.Name, nil
}

//Delete removes the pod name, logging failures.
func (P *Pods) Delete(ctx context.Context, name string) {
	if err := P.Client.CoreV1().Pods(P.Config.Namespace).Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		log.Printf("Warning: failed to delete pod %s: %v", name, err)
		return
	}
	log.Printf("Deleted pod %s", name)
}

//Prune deletes the simulation pods that already finished, which a previous
//operator instance may have left behind. It returns how many it deleted.
func (P *Pods) Prune(ctx context.Context) (int, error) {
	list, err := P.Client.CoreV1().Pods(P.Config.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: fmt.Sprintf("app=%s", P.Config.AppLabel),
	})
	if err != nil {
		return 0, fmt.Errorf("list pods: %w", err)
	}
	n := 0
	for _, pod := range list.Items {
		switch pod.Status.Phase {
		case v1.PodSucceeded, v1.PodFailed:
			P.Delete(ctx, pod.Name)
			n++
		}
	}
	return n, nil
}
