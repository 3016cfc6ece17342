package models

// StatusProcessed is written for every successful upload.
const StatusProcessed = "İşlendi"

// TimestampLayout matches SQLite's CURRENT_TIMESTAMP text form.
const TimestampLayout = "2006-01-02 15:04:05"

// FileInfo represents one row of the files table.
type FileInfo struct {
	ID               int64   `json:"id" msgpack:"id"`
	Filename         string  `json:"filename" msgpack:"filename"`
	OriginalFilename string  `json:"original_filename" msgpack:"original_filename"`
	Status           string  `json:"status" msgpack:"status"`
	Timestamp        string  `json:"timestamp" msgpack:"timestamp"`
	Size             *int64  `json:"size" msgpack:"size"`
	ErrorMsg         *string `json:"error_msg" msgpack:"error_msg"`
}

// UploadResult is returned by POST /upload.
type UploadResult struct {
	Message          string `json:"message"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Size             int64  `json:"size"`
}

// MessageResponse is the generic {message} body.
type MessageResponse struct {
	Message string `json:"message"`
}
