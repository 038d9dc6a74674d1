package kube

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/fleetform/fleetform/domain/model"
)

func testClient() *Client {
	return &Client{Clientset: fake.NewSimpleClientset()}
}

func TestBuildDeploymentWithClaim(t *testing.T) {
	spec := &model.DeploymentSpec{
		Name:          "demo-webapp",
		ImageTag:      "v1.2.3",
		Replicas:      3,
		ContainerPort: 3000,
		CPURequest:    "100m",
		CPULimit:      "500m",
		Env:           map[string]string{"NODE_ENV": "production", "DB_HOST": "db-0.internal"},
		HostAliases: []model.HostAlias{
			{IP: "10.1.2.3", Hostnames: []string{"db-0.internal"}},
		},
		LivenessPath:  "/healthz",
		ReadinessPath: "/ready",
	}
	claim := &model.StorageClaimHandle{ClaimName: "demo-nfs-pvc"}

	dep, err := BuildDeployment(spec, claim)
	if err != nil {
		t.Fatalf("BuildDeployment: %v", err)
	}
	if got := dep.Spec.Template.Spec.Containers[0].Image; got != "docker.io/fleetform/webapp:v1.2.3" {
		t.Errorf("image = %q", got)
	}
	if *dep.Spec.Replicas != 3 {
		t.Errorf("replicas = %d", *dep.Spec.Replicas)
	}
	c := dep.Spec.Template.Spec.Containers[0]
	if len(c.VolumeMounts) != 1 || c.VolumeMounts[0].MountPath != model.ClaimMountPath {
		t.Errorf("volume mounts = %+v", c.VolumeMounts)
	}
	vols := dep.Spec.Template.Spec.Volumes
	if len(vols) != 1 || vols[0].PersistentVolumeClaim.ClaimName != "demo-nfs-pvc" {
		t.Errorf("volumes = %+v", vols)
	}
	// Env is emitted sorted by name.
	if c.Env[0].Name != "DB_HOST" || c.Env[1].Name != "NODE_ENV" {
		t.Errorf("env order = %+v", c.Env)
	}
	if lp := c.LivenessProbe; lp == nil ||
		lp.InitialDelaySeconds != 5 || lp.TimeoutSeconds != 1 ||
		lp.PeriodSeconds != 10 || lp.FailureThreshold != 3 {
		t.Errorf("liveness probe = %+v", c.LivenessProbe)
	}
	has := dep.Spec.Template.Spec.HostAliases
	if len(has) != 1 || has[0].IP != "10.1.2.3" {
		t.Errorf("host aliases = %+v", has)
	}
}

func TestBuildDeploymentWithoutClaim(t *testing.T) {
	spec := &model.DeploymentSpec{
		Name:          "bare-webapp",
		ImageTag:      "latest",
		Replicas:      1,
		ContainerPort: 3000,
		CPURequest:    "100m",
		CPULimit:      "200m",
	}
	dep, err := BuildDeployment(spec, nil)
	if err != nil {
		t.Fatalf("BuildDeployment: %v", err)
	}
	if len(dep.Spec.Template.Spec.Volumes) != 0 {
		t.Errorf("expected no volumes, got %+v", dep.Spec.Template.Spec.Volumes)
	}
	if len(dep.Spec.Template.Spec.Containers[0].VolumeMounts) != 0 {
		t.Errorf("expected no mounts, got %+v", dep.Spec.Template.Spec.Containers[0].VolumeMounts)
	}
	if dep.Spec.Template.Spec.Containers[0].LivenessProbe != nil {
		t.Error("expected no liveness probe without a path")
	}
}

func TestBuildDeploymentRejectsBadCPU(t *testing.T) {
	spec := &model.DeploymentSpec{Name: "x", CPURequest: "not-a-quantity", CPULimit: "200m"}
	if _, err := BuildDeployment(spec, nil); err == nil {
		t.Fatal("expected error for unparsable CPU request")
	}
}

func TestEnsureDeploymentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	spec := &model.DeploymentSpec{
		Name: "demo-webapp", ImageTag: "v1", Replicas: 2,
		ContainerPort: 3000, CPURequest: "100m", CPULimit: "200m",
	}
	dep, err := BuildDeployment(spec, nil)
	if err != nil {
		t.Fatalf("BuildDeployment: %v", err)
	}
	if err := c.EnsureDeployment(ctx, dep); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	spec.Replicas = 5
	dep, _ = BuildDeployment(spec, nil)
	if err := c.EnsureDeployment(ctx, dep); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	got, err := c.Clientset.AppsV1().Deployments(Namespace).Get(ctx, "demo-webapp", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got.Spec.Replicas != 5 {
		t.Errorf("replicas after update = %d", *got.Spec.Replicas)
	}
}

func TestBuildPersistentVolumeAndClaim(t *testing.T) {
	share := &model.FileShareInfo{ServerAddress: "10.9.8.7", ExportPath: "/share1", CapacityGB: 100}
	pv := BuildPersistentVolume("demo-nfs-pv", share, model.StorageClassName)
	if pv.Spec.NFS.Server != "10.9.8.7" || pv.Spec.NFS.Path != "/share1" {
		t.Errorf("NFS source = %+v", pv.Spec.NFS)
	}
	if pv.Spec.PersistentVolumeReclaimPolicy != corev1.PersistentVolumeReclaimRetain {
		t.Errorf("reclaim policy = %s", pv.Spec.PersistentVolumeReclaimPolicy)
	}
	if pv.Spec.StorageClassName != model.StorageClassName {
		t.Errorf("class = %q", pv.Spec.StorageClassName)
	}
	if got := pv.Spec.Capacity[corev1.ResourceStorage]; got.String() != "100Gi" {
		t.Errorf("capacity = %s", got.String())
	}

	pvc := BuildPersistentVolumeClaim("demo-nfs-pvc", "demo-nfs-pv", model.StorageClassName, 100)
	if pvc.Spec.VolumeName != "demo-nfs-pv" {
		t.Errorf("volume name = %q", pvc.Spec.VolumeName)
	}
	if *pvc.Spec.StorageClassName != pv.Spec.StorageClassName {
		t.Errorf("claim class %q does not match volume class %q",
			*pvc.Spec.StorageClassName, pv.Spec.StorageClassName)
	}
	if got := pvc.Spec.Resources.Requests[corev1.ResourceStorage]; got.String() != "100Gi" {
		t.Errorf("request = %s", got.String())
	}
}

func TestEnsurePersistentVolumeAndClaim(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	share := &model.FileShareInfo{ServerAddress: "10.9.8.7", ExportPath: "/share1", CapacityGB: 50}
	pv := BuildPersistentVolume("demo-nfs-pv", share, model.StorageClassName)
	if err := c.EnsurePersistentVolume(ctx, pv); err != nil {
		t.Fatalf("ensure pv: %v", err)
	}
	if err := c.EnsurePersistentVolume(ctx, pv); err != nil {
		t.Fatalf("re-ensure pv: %v", err)
	}
	pvc := BuildPersistentVolumeClaim("demo-nfs-pvc", "demo-nfs-pv", model.StorageClassName, 50)
	if err := c.EnsurePersistentVolumeClaim(ctx, pvc); err != nil {
		t.Fatalf("ensure pvc: %v", err)
	}
	if _, err := c.Clientset.CoreV1().PersistentVolumeClaims(Namespace).Get(ctx, "demo-nfs-pvc", metav1.GetOptions{}); err != nil {
		t.Fatalf("get pvc: %v", err)
	}
}

func TestBuildService(t *testing.T) {
	spec := &model.ServiceSpec{Name: "demo-webapp-svc", Port: 80, TargetPort: 3000, StaticIP: "203.0.113.9"}
	svc := BuildService(spec, "demo-webapp")
	if svc.Spec.Type != corev1.ServiceTypeLoadBalancer {
		t.Errorf("type = %s", svc.Spec.Type)
	}
	if svc.Spec.LoadBalancerIP != "203.0.113.9" {
		t.Errorf("static IP = %q", svc.Spec.LoadBalancerIP)
	}
	p := svc.Spec.Ports[0]
	if p.Port != 80 || p.TargetPort.IntValue() != 3000 {
		t.Errorf("ports = %+v", p)
	}
	if svc.Spec.Selector["app"] != "demo-webapp" {
		t.Errorf("selector = %+v", svc.Spec.Selector)
	}

	svc = BuildService(&model.ServiceSpec{Name: "s", Port: 80, TargetPort: 3000}, "demo-webapp")
	if svc.Spec.LoadBalancerIP != "" {
		t.Errorf("unexpected static IP %q", svc.Spec.LoadBalancerIP)
	}
}

func TestEnsureServicePreservesClusterIP(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	spec := &model.ServiceSpec{Name: "demo-webapp-svc", Port: 80, TargetPort: 3000}
	if err := c.EnsureService(ctx, BuildService(spec, "demo-webapp")); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	existing, _ := c.Clientset.CoreV1().Services(Namespace).Get(ctx, "demo-webapp-svc", metav1.GetOptions{})
	existing.Spec.ClusterIP = "10.0.0.42"
	if _, err := c.Clientset.CoreV1().Services(Namespace).Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		t.Fatalf("seed cluster IP: %v", err)
	}
	if err := c.EnsureService(ctx, BuildService(spec, "demo-webapp")); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	got, _ := c.Clientset.CoreV1().Services(Namespace).Get(ctx, "demo-webapp-svc", metav1.GetOptions{})
	if got.Spec.ClusterIP != "10.0.0.42" {
		t.Errorf("cluster IP after update = %q", got.Spec.ClusterIP)
	}
}

func TestWaitServiceIngress(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	svc := BuildService(&model.ServiceSpec{Name: "demo-webapp-svc", Port: 80, TargetPort: 3000}, "demo-webapp")
	svc.Status.LoadBalancer.Ingress = []corev1.LoadBalancerIngress{{IP: "198.51.100.7"}}
	if _, err := c.Clientset.CoreV1().Services(Namespace).Create(ctx, svc, metav1.CreateOptions{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	ing, err := c.WaitServiceIngress(ctx, "demo-webapp-svc")
	if err != nil {
		t.Fatalf("WaitServiceIngress: %v", err)
	}
	if ing.IP != "198.51.100.7" {
		t.Errorf("ingress = %+v", ing)
	}
}

func TestBuildHorizontalPodAutoscaler(t *testing.T) {
	spec := &model.AutoscalingPolicySpec{
		DeploymentName:       "demo-webapp",
		TargetCPUUtilization: 60,
		MinReplicas:          2,
		MaxReplicas:          10,
	}
	hpa := BuildHorizontalPodAutoscaler(spec)
	if hpa.Spec.ScaleTargetRef.Kind != "Deployment" || hpa.Spec.ScaleTargetRef.Name != "demo-webapp" {
		t.Errorf("target ref = %+v", hpa.Spec.ScaleTargetRef)
	}
	if *hpa.Spec.MinReplicas != 2 || hpa.Spec.MaxReplicas != 10 {
		t.Errorf("replica bounds = %d..%d", *hpa.Spec.MinReplicas, hpa.Spec.MaxReplicas)
	}
	if got := *hpa.Spec.Metrics[0].Resource.Target.AverageUtilization; got != 60 {
		t.Errorf("target utilization = %d", got)
	}
}

func TestEnsureHorizontalPodAutoscalerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := testClient()
	spec := &model.AutoscalingPolicySpec{DeploymentName: "demo-webapp", TargetCPUUtilization: 60, MinReplicas: 2, MaxReplicas: 10}
	if err := c.EnsureHorizontalPodAutoscaler(ctx, BuildHorizontalPodAutoscaler(spec)); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	spec.MaxReplicas = 20
	if err := c.EnsureHorizontalPodAutoscaler(ctx, BuildHorizontalPodAutoscaler(spec)); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	got, err := c.Clientset.AutoscalingV2().HorizontalPodAutoscalers(Namespace).Get(ctx, "demo-webapp", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Spec.MaxReplicas != 20 {
		t.Errorf("max replicas after update = %d", got.Spec.MaxReplicas)
	}
}

func TestNewClientFromCredential(t *testing.T) {
	cred := &model.AccessCredential{
		Endpoint: "https://203.0.113.1",
		CACert: []byte(`-----BEGIN CERTIFICATE-----
MIIBeTCCAR+gAwIBAgIUF2TvOAXLBv/E+Xggxe6UvsgHWBowCgYIKoZIzj0EAwIw
EjEQMA4GA1UEAwwHdGVzdC1jYTAeFw0yNjA4MjMxNjIxMTlaFw0zNjA4MjAxNjIx
MTlaMBIxEDAOBgNVBAMMB3Rlc3QtY2EwWTATBgcqhkjOPQIBBggqhkjOPQMBBwNC
AARVQu5xaDHKhCUAqOztirTpQd93KvpQsVUzxo9puDe64AnVyFMQKgQUaMlDT1Px
QoYygoJevTvK16kSuNrTbDkgo1MwUTAdBgNVHQ4EFgQUUE65sEtEK2CwytxarAMH
rOrerNUwHwYDVR0jBBgwFoAUUE65sEtEK2CwytxarAMHrOrerNUwDwYDVR0TAQH/
BAUwAwEB/zAKBggqhkjOPQQDAgNIADBFAiEAiQ9q2Mmd7G6AmhGSZ/Yzj4taiyz8
3iYtr8x9yXJBwIYCIHZIQojGXQd60Y9u+sE+ZOu9k0j6TpuV4POWV+oAPTwU
-----END CERTIFICATE-----
`),
		Exec: &model.ExecCredential{
			Command:    "gke-gcloud-auth-plugin",
			APIVersion: "client.authentication.k8s.io/v1beta1",
		},
	}
	c, err := NewClientFromCredential(cred, &Options{UserAgent: "fleetform-test"})
	if err != nil {
		t.Fatalf("NewClientFromCredential: %v", err)
	}
	if c.RESTConfig.Host != "https://203.0.113.1" {
		t.Errorf("host = %q", c.RESTConfig.Host)
	}
	if c.RESTConfig.ExecProvider == nil || c.RESTConfig.ExecProvider.Command != "gke-gcloud-auth-plugin" {
		t.Errorf("exec provider = %+v", c.RESTConfig.ExecProvider)
	}

	if _, err := NewClientFromCredential(&model.AccessCredential{Endpoint: "https://x"}, nil); err == nil {
		t.Fatal("expected error for credential without keys or exec plugin")
	}
	if _, err := NewClientFromCredential(nil, nil); err == nil {
		t.Fatal("expected error for nil credential")
	}
}
