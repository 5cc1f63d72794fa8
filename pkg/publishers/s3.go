package publishers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client defines the minimal subset of the S3 client used by s3Publisher.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Publisher archives each submission as a JSON object, plus the photo as a
// separate JPEG object when the report has one.
type s3Publisher struct {
	id     string
	typ    string
	bucket string
	prefix string
	client s3Client
	log    Logger
}

func newS3Publisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("publisher %q missing s3 configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.S3.AWSConfig)
	if err != nil {
		return nil, err
	}

	endpoint, pathStyle := cfg.S3.Endpoint, cfg.S3.PathStyle
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &s3Publisher{
		id:     cfg.ID,
		typ:    TypeS3,
		bucket: cfg.S3.Bucket,
		prefix: cfg.S3.Prefix,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (p *s3Publisher) ID() string   { return p.id }
func (p *s3Publisher) Type() string { return p.typ }

// Publish writes <prefix>/<yyyy>/<mm>/<event id>.json and, if present, the photo
// next to it as .jpg.
func (p *s3Publisher) Publish(ctx context.Context, evt Event) error {
	base := p.objectBase(evt)

	if evt.photo != "" {
		img, err := base64.StdEncoding.DecodeString(evt.photo)
		if err != nil {
			return fmt.Errorf("decode photo: %w", err)
		}
		if err := p.put(ctx, base+".jpg", "image/jpeg", img); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.put(ctx, base+".json", "application/json", payload); err != nil {
		return err
	}

	p.log.DebugObj("s3 publisher archived event", "publisher_s3_delivery", map[string]any{
		"publisher_id": p.id,
		"event_id":     evt.ID,
		"key":          base + ".json",
		"with_photo":   evt.photo != "",
	})
	return nil
}

func (p *s3Publisher) objectBase(evt Event) string {
	return path.Join(p.prefix, evt.SubmittedAt.Format("2006/01"), evt.ID)
}

func (p *s3Publisher) put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		p.log.ErrorObj("s3 publisher put failed", "publisher_s3_error", map[string]any{
			"publisher_id": p.id,
			"key":          key,
			"error":        err.Error(),
		})
		return fmt.Errorf("put s3 object %s: %w", key, err)
	}
	return nil
}
