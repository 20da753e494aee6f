package persistent

import (
	"bytes"
	"context"
	"fmt"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/cidutil"
	"github.com/andreyxaxa/Event-Attestor/pkg/s3client"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// cidMetadataKey is the object metadata the pinning provider sets to the pinned CID.
const cidMetadataKey = "cid"

// IPFSObjectStore pins content through an S3-compatible IPFS gateway (Filebase style).
type IPFSObjectStore struct {
	*s3client.S3Client
	bucket  string
	gateway string
}

func NewIPFSObjectStore(s3c *s3client.S3Client, bucket, gateway string) *IPFSObjectStore {
	return &IPFSObjectStore{s3c, bucket, gateway}
}

func (r *IPFSObjectStore) Store(ctx context.Context, blob []byte, name, contentType string) (entity.StoredContentRef, error) {
	// 1. Local CID is the object key, so identical content maps to the same object
	local, err := cidutil.CIDv1RawSHA256(blob)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("IPFSObjectStore - Store - cidutil.CIDv1RawSHA256: %w", err)
	}
	key := local.String()

	// 2. Upload
	_, err = r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(blob))),
	})
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("IPFSObjectStore - Store - r.Client.PutObject(%s): %w", name, mapS3Error(err))
	}

	// 3. Pinned CID reported by the provider
	head, err := r.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("IPFSObjectStore - Store - r.Client.HeadObject: %w", mapS3Error(err))
	}

	id := head.Metadata[cidMetadataKey]
	if id == "" {
		id = key
	}

	id, err = cidutil.Parse(id)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("IPFSObjectStore - Store: %w: %v", errs.ErrStorageRejected, err)
	}

	return entity.StoredContentRef{
		ContentID:    id,
		RetrievalURL: cidutil.GatewayURL(r.gateway, id),
	}, nil
}
