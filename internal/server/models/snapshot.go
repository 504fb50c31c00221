package models

// Snapshot is an archived copy of a saved article, kept in object storage
// under StorageKey. UploadStatus is "pending" until the client confirms the
// presigned upload.
type Snapshot struct {
	ItemID       string `json:"item_id"`
	UserID       string `json:"-"`
	StorageKey   string `json:"-"`
	UploadStatus string `json:"upload_status"`
}
