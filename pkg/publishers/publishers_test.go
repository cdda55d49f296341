package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      method: put
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	h := enabled[0].HTTP
	if h.URL != "https://example.com/2" || h.Method != "PUT" || h.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http block not normalised: %+v", h)
	}
}

func TestLoadRegistryCloudBlocks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/deals
      region: us-east-1
      access_key_id: AKIDEXAMPLE
      secret_access_key: secret
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:123:deals
      region: us-east-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: pc-deals
      topic: deals
      credentials_file: /etc/gcp/key.json
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	q, _ := reg.ByID("queue")
	if q.SQS.AccessKeyID != "AKIDEXAMPLE" || q.SQS.SecretAccessKey != "secret" {
		t.Fatalf("inline credentials not decoded: %+v", q.SQS)
	}
	topic, _ := reg.ByID("topic")
	if topic.SNS.TopicARN != "arn:aws:sns:us-east-1:123:deals" || topic.SNS.AWSCredentials.isSet() {
		t.Fatalf("unexpected sns block: %+v", topic.SNS)
	}
	gcp, _ := reg.ByID("gcp")
	if gcp.PubSub.ProjectID != "pc-deals" || gcp.PubSub.CredentialsFile != "/etc/gcp/key.json" {
		t.Fatalf("unexpected pubsub block: %+v", gcp.PubSub)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[{"id":"a","type":"http","http":{"url":"https://x"}},{"id":"a","type":"http","http":{"url":"https://y"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate publisher error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http":     {ID: "h1", Type: TypeHTTP},
		"missing sqs uri":  {ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "us-east-1"}},
		"missing sns arn":  {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		"half credentials": {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", Region: "r", AWSCredentials: AWSCredentials{AccessKeyID: "only"}}},
		"missing project":  {ID: "p", Type: TypePubSub, PubSub: &PubSubPublisherConfig{Topic: "t"}},
		"missing pubsub":   {ID: "p", Type: TypePubSub},
		"missing id":       {Type: TypeHTTP},
		"missing type":     {ID: "x"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := validatePublisherConfig(cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
