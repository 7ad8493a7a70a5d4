package model

// DefaultContentType is declared for every stored object unless configured otherwise.
const DefaultContentType = "image/jpeg"

// UploadParams holds what the endpoint extracted from a multipart request.
type UploadParams struct {
	FileName string
	Data     []byte
}

// KeyStrategy selects how storage keys are derived from uploads.
type KeyStrategy string

const (
	// KeyStrategyOriginal stores objects under the client-supplied file name.
	KeyStrategyOriginal KeyStrategy = "original"
	// KeyStrategyHashed stores objects under the SHA-256 of their content plus the file extension.
	KeyStrategyHashed KeyStrategy = "hashed"
)

// UploadResponse is returned to the client after a successful upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
}

// ErrorResponse is returned to the client on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
