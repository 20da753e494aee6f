package persistent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/cidutil"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
)

const pinFilePath = "/pinning/pinFileToIPFS"

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

// PinataStore pins content with the Pinata pinning API.
type PinataStore struct {
	client   *http.Client
	endpoint string
	jwt      string
	gateway  string
}

func NewPinataStore(client *http.Client, endpoint, jwt, gateway string) *PinataStore {
	if client == nil {
		client = http.DefaultClient
	}

	return &PinataStore{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
		jwt:      jwt,
		gateway:  gateway,
	}
}

func (r *PinataStore) Store(ctx context.Context, blob []byte, name, contentType string) (entity.StoredContentRef, error) {
	// 1. Multipart body
	body, boundary, err := pinataBody(blob, name, contentType)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store - pinataBody: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+pinFilePath, body)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", boundary)
	req.Header.Set("Authorization", "Bearer "+r.jwt)

	// 2. Send
	resp, err := r.client.Do(req)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store - r.client.Do: %w: %v", errs.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store - io.ReadAll: %w: %v", errs.ErrStorageUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store: %w: status %d: %s",
			storageStatusError(resp.StatusCode), resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// 3. Validate returned CID
	var out pinataResponse
	err = json.Unmarshal(raw, &out)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store - json.Unmarshal: %w: %v", errs.ErrStorageRejected, err)
	}

	id, err := cidutil.Parse(out.IpfsHash)
	if err != nil {
		return entity.StoredContentRef{}, fmt.Errorf("PinataStore - Store: %w: %v", errs.ErrStorageRejected, err)
	}

	return entity.StoredContentRef{
		ContentID:    id,
		RetrievalURL: cidutil.GatewayURL(r.gateway, id),
	}, nil
}

func pinataBody(blob []byte, name, contentType string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write(blob); err != nil {
		return nil, "", err
	}

	meta, err := json.Marshal(pinataMetadata{Name: name})
	if err != nil {
		return nil, "", err
	}
	if err = w.WriteField("pinataMetadata", string(meta)); err != nil {
		return nil, "", err
	}

	if err = w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
