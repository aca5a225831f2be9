package dto

type UpdateImageRequest struct {
	AltText *string  `json:"altText"`
	Tags    []string `json:"tags"`
}

type ImageStatsResponse struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"totalBytes"`
}
