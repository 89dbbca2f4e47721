package dto

// UploadResponse describes a stored attachment ready to be referenced
// from a submission payload.
type UploadResponse struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}
