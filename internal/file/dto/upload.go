package dto

// FileInput carries one uploaded file: its client-side name and a base64
// data URL ("data:<content-type>;base64,<payload>").
type FileInput struct {
	Name    string `json:"name"`
	RawBody string `json:"rawBody"`
}

type UploadInput struct {
	Files  []FileInput `json:"files"`
	Folder string      `json:"folder"`
}
