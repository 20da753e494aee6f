package entity

// StoredContentRef points at a blob accepted by the content store. The blob is
// public and immutable from then on.
type StoredContentRef struct {
	ContentID    string `json:"content_id"`
	RetrievalURL string `json:"retrieval_url"`
}

// StagedUpload is the request-scoped temporary copy of an uploaded image.
type StagedUpload struct {
	Path         string
	OriginalName string
	Size         int64
}

type ImageInfo struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}
