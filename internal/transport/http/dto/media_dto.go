package dto

type UploadPhotoResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}
