package clientcli

import (
	"github.com/google/uuid"

	"github.com/sagarc03/foldery"
)

// Folder is a folder record as returned by the server.
type Folder = foldery.Folder

// RequiredFile is one entry of a folder's required files.
type RequiredFile = foldery.RequiredFile

// CreateOptions configures a create operation.
type CreateOptions struct {
	Name   string
	Parent string // optional parent folder id
	Type   string // optional, server default when empty
}

// UpdateOptions configures an update operation. Nil fields are not sent.
type UpdateOptions struct {
	Name          *string
	Type          *string
	RequiredFiles *[]RequiredFile
	SubFolders    *[]uuid.UUID
}

// IsEmpty reports whether the update would send no fields.
func (o UpdateOptions) IsEmpty() bool {
	return o.Name == nil && o.Type == nil && o.RequiredFiles == nil && o.SubFolders == nil
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	IDs []string
}

// DeleteResult represents the result of deleting a single folder.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// createRequest mirrors the JSON body the server expects on create.
type createRequest struct {
	Name   string `json:"folder_name"`
	Parent string `json:"folder_parent,omitempty"`
	Type   string `json:"type,omitempty"`
}

// updateRequest mirrors the JSON body the server expects on update.
type updateRequest struct {
	Name          *string         `json:"folder_name,omitempty"`
	Type          *string         `json:"type,omitempty"`
	RequiredFiles *[]RequiredFile `json:"required_files,omitempty"`
	SubFolders    *[]uuid.UUID    `json:"sub_folders,omitempty"`
}

// serverError mirrors the JSON error body written by the server.
type serverError struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
