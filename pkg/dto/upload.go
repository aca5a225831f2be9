package dto

// UploadRequest carries one image as a base64 data URI.
type UploadRequest struct {
	File    string   `json:"file"`
	Folder  string   `json:"folder"`
	AltText string   `json:"altText"`
	Tags    []string `json:"tags"`
}

// UploadImage is one entry of a batch upload; alt text is per image, the
// folder and tags are shared across the batch.
type UploadImage struct {
	File    string `json:"file"`
	AltText string `json:"altText"`
}

type UploadMultipleRequest struct {
	Images []UploadImage `json:"images"`
	Folder string        `json:"folder"`
	Tags   []string      `json:"tags"`
}

type DeleteImageRequest struct {
	// Either the stored image id or the delivery URL identifies the asset.
	ID  string `json:"id"`
	URL string `json:"url"`
}
