package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

func TestGetSecretData(t *testing.T) {
	clientset := k8sfake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "vault-cert", Namespace: "vault"},
		Data: map[string][]byte{
			"ca.crt": []byte("-----BEGIN CERTIFICATE-----"),
		},
	})
	client := NewClientWith(clientset, nil)

	data, err := client.GetSecretData(context.Background(), "vault", "vault-cert", "ca.crt")
	require.NoError(t, err)
	assert.Equal(t, []byte("-----BEGIN CERTIFICATE-----"), data)
}

func TestGetSecretData_MissingKey(t *testing.T) {
	clientset := k8sfake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "vault-cert", Namespace: "vault"},
		Data:       map[string][]byte{"tls.crt": []byte("x")},
	})
	client := NewClientWith(clientset, nil)

	_, err := client.GetSecretData(context.Background(), "vault", "vault-cert", "ca.crt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key ca.crt not found")
}

func TestGetSecretData_MissingSecret(t *testing.T) {
	client := NewClientWith(k8sfake.NewSimpleClientset(), nil)

	_, err := client.GetSecretData(context.Background(), "vault", "vault-cert", "ca.crt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get secret")
}
