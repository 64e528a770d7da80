package internal

import (
	"encoding/json"
	"fmt"

	"github.com/sagarc03/foldery"
)

// Columns are the JSON encoded collection columns of a folder row.
type Columns struct {
	SubFolders    string
	RequiredFiles string
	Files         string
}

// EncodeColumns marshals the folder's collections. Nil collections encode as
// empty JSON arrays or objects, never null.
func EncodeColumns(f foldery.Folder) (Columns, error) {
	f = f.Normalize()

	subs, err := json.Marshal(f.SubFolders)
	if err != nil {
		return Columns{}, fmt.Errorf("encode sub_folders: %w", err)
	}

	required, err := json.Marshal(f.RequiredFiles)
	if err != nil {
		return Columns{}, fmt.Errorf("encode required_files: %w", err)
	}

	files, err := json.Marshal(f.Files)
	if err != nil {
		return Columns{}, fmt.Errorf("encode files: %w", err)
	}

	return Columns{SubFolders: string(subs), RequiredFiles: string(required), Files: string(files)}, nil
}

// DecodeColumns fills the folder's collections from their JSON columns.
func DecodeColumns(f *foldery.Folder, subFolders, requiredFiles, files []byte) error {
	if err := json.Unmarshal(subFolders, &f.SubFolders); err != nil {
		return fmt.Errorf("decode sub_folders: %w", err)
	}

	if err := json.Unmarshal(requiredFiles, &f.RequiredFiles); err != nil {
		return fmt.Errorf("decode required_files: %w", err)
	}

	if err := json.Unmarshal(files, &f.Files); err != nil {
		return fmt.Errorf("decode files: %w", err)
	}

	*f = f.Normalize()
	return nil
}

// Assignment is one column = value pair of an UPDATE built from a patch.
type Assignment struct {
	Column string
	Value  any
}

// PatchAssignments lists the columns a patch changes, in a fixed order.
func PatchAssignments(p foldery.FolderPatch) ([]Assignment, error) {
	var out []Assignment

	if p.Name != nil {
		out = append(out, Assignment{Column: "name", Value: *p.Name})
	}

	if p.Type != nil {
		out = append(out, Assignment{Column: "type", Value: *p.Type})
	}

	if p.SubFolders != nil {
		cols, err := EncodeColumns(foldery.Folder{SubFolders: *p.SubFolders})
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Column: "sub_folders", Value: cols.SubFolders})
	}

	if p.RequiredFiles != nil {
		cols, err := EncodeColumns(foldery.Folder{RequiredFiles: *p.RequiredFiles})
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Column: "required_files", Value: cols.RequiredFiles})
	}

	return out, nil
}
