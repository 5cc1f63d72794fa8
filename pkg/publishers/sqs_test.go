package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherSendSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := pub.Publish(context.Background(), NewEvent(domain.Defect{ID: "a1", Laboratorio: "Chem"}))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["event_type"]
	if !ok || aws.ToString(attr.StringValue) != EventTypeDefectSubmitted {
		t.Fatalf("event_type attribute missing or wrong: %#v", attr)
	}
	if lab := client.input.MessageAttributes["laboratorio"]; aws.ToString(lab.StringValue) != "Chem" {
		t.Fatalf("laboratorio attribute missing: %#v", lab)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"id":"a1"`) {
		t.Fatalf("MessageBody missing defect id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      noopLogger{},
	}

	if err := pub.Publish(context.Background(), NewEvent(domain.Defect{ID: "a1"})); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSQSAttributesSkipEmptyLab(t *testing.T) {
	attrs := sqsAttributes(Event{Type: EventTypeDefectSubmitted})
	if _, ok := attrs["laboratorio"]; ok {
		t.Fatalf("empty laboratorio must not be sent as attribute")
	}
}
