package foldery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultFolderType is used when a folder is created without a type.
const DefaultFolderType = "default"

type Folder struct {
	ID            uuid.UUID           `json:"id"`
	Owner         string              `json:"owner"`
	Name          string              `json:"name"`
	Type          string              `json:"type"`
	SubFolders    []uuid.UUID         `json:"sub_folders"`
	RequiredFiles []RequiredFile      `json:"required_files"`
	Files         map[string]FileInfo `json:"files"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Normalize replaces nil collections with empty ones so every record
// serializes the same way regardless of the backend that produced it.
func (f Folder) Normalize() Folder {
	if f.SubFolders == nil {
		f.SubFolders = []uuid.UUID{}
	}
	if f.RequiredFiles == nil {
		f.RequiredFiles = []RequiredFile{}
	}
	if f.Files == nil {
		f.Files = map[string]FileInfo{}
	}
	return f
}

// HasChild reports whether id is listed in the folder's sub folders.
func (f Folder) HasChild(id uuid.UUID) bool {
	return slices.Contains(f.SubFolders, id)
}

// WithoutChild returns a copy of the sub folder list with every occurrence
// of id removed.
func (f Folder) WithoutChild(id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(f.SubFolders))
	for _, c := range f.SubFolders {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}

// RequiredFile describes a file a folder is expected to eventually hold.
type RequiredFile struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare string, the latter being
// shorthand for a required file with only a name.
func (r *RequiredFile) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("required file: %w", err)
		}
		*r = RequiredFile{Name: name}
		return nil
	}

	type plain RequiredFile
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("required file: %w", err)
	}
	*r = RequiredFile(p)
	return nil
}

// FileInfo is the per-file entry of a folder's files map. It is written by
// upload collaborators; folder operations only carry it along.
type FileInfo struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	Etag        string    `json:"etag,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at,omitzero"`
}

type CreateFolder struct {
	Name     string
	Owner    string
	ParentID *uuid.UUID
	Type     string
}

// FolderPatch lists the fields to change on a folder. Nil fields are left
// untouched.
type FolderPatch struct {
	Name          *string
	Type          *string
	RequiredFiles *[]RequiredFile
	SubFolders    *[]uuid.UUID
}

// IsEmpty reports whether the patch changes nothing.
func (p FolderPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.RequiredFiles == nil && p.SubFolders == nil
}

// Apply returns f with the patch applied.
func (p FolderPatch) Apply(f Folder) Folder {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.RequiredFiles != nil {
		f.RequiredFiles = slices.Clone(*p.RequiredFiles)
	}
	if p.SubFolders != nil {
		f.SubFolders = slices.Clone(*p.SubFolders)
	}
	return f.Normalize()
}

type ScanQuery struct {
	Owner  string
	Name   string
	Limit  int
	Cursor string
}

type ScanResult struct {
	Items      []Folder `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// Matches reports whether f satisfies the query's filters. An empty owner or
// name matches everything.
func (q ScanQuery) Matches(f Folder) bool {
	if q.Owner != "" && f.Owner != q.Owner {
		return false
	}
	if q.Name != "" && f.Name != q.Name {
		return false
	}
	return true
}

// ReconcileReport summarizes a reconcile pass. Invalid lists records whose
// bucket name cannot be derived; they are skipped.
type ReconcileReport struct {
	Checked  int         `json:"checked"`
	Missing  []uuid.UUID `json:"missing"`
	Repaired []uuid.UUID `json:"repaired"`
	Invalid  []uuid.UUID `json:"invalid"`
}
