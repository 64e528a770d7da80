package foldery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	msgNameRequired     = "Folder name is required."
	msgPermissionDenied = "You do not have permission to access or modify this folder."
	msgMissingIdentity  = "User ID is missing."
)

type FolderService struct {
	repo              FolderRepo
	containers        *Containers
	defaultType       string
	cascadeParentRefs bool
	scanLimit         int
}

// ServiceConfig holds configuration options for FolderService.
type ServiceConfig struct {
	DefaultType  string // Type given to folders created without one (default: "default")
	BucketPrefix string // Prepended to "<id>-<owner>" before sanitizing
	// CascadeParentRefs makes Delete also strip the deleted id from every
	// folder of the owner that lists it as a sub folder.
	CascadeParentRefs bool
	ScanLimit         int // Page size for owner scans (default: DefaultScanLimit)
}

func NewFolderService(repo FolderRepo, storage BucketStorage, cfg ServiceConfig) (*FolderService, error) {
	if repo == nil {
		return nil, errors.New("new folder service: repo is required")
	}
	if storage == nil {
		return nil, errors.New("new folder service: storage is required")
	}

	defaultType := cfg.DefaultType
	if defaultType == "" {
		defaultType = DefaultFolderType
	}
	scanLimit := cfg.ScanLimit
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}

	return &FolderService{
		repo:              repo,
		containers:        NewContainers(storage, cfg.BucketPrefix),
		defaultType:       defaultType,
		cascadeParentRefs: cfg.CascadeParentRefs,
		scanLimit:         scanLimit,
	}, nil
}

// Containers exposes the bucket naming and provisioning used by the service.
func (s *FolderService) Containers() *Containers {
	return s.containers
}

// Create registers a new folder for req.Owner and provisions its bucket.
//
// The method performs the following steps:
//  1. Rejects an empty name (ErrNameRequired)
//  2. Scans the owner's folders for the same name (ErrAlreadyExists)
//  3. Appends the new id to the parent's sub folders, if a parent is given
//  4. Stores the new record
//  5. Creates the bucket
//
// Steps are not transactional. If the bucket cannot be created the record
// stays behind without one; Reconcile can repair that later.
//
// Error types returned:
//   - ErrNameRequired: Empty name
//   - ErrMissingIdentity: Empty owner
//   - ErrAlreadyExists: Same name for the owner, or bucket already present
//   - ErrNotFound: Parent does not exist
//   - ErrPermissionDenied: Parent belongs to another owner
//   - ErrInvalidIdentifier: No valid bucket name can be derived
func (s *FolderService) Create(ctx context.Context, req CreateFolder) (Folder, error) {
	const op = "create folder"

	if err := ctx.Err(); err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	if req.Name == "" {
		return Folder{}, E(KindNameRequired, op, msgNameRequired)
	}

	if req.Owner == "" {
		return Folder{}, E(KindMissingIdentity, op, msgMissingIdentity)
	}

	existing, err := ScanAll(ctx, s.repo, ScanQuery{Owner: req.Owner, Name: req.Name, Limit: s.scanLimit})
	if err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		return Folder{}, E(KindAlreadyExists, op, fmt.Sprintf("Folder %s already exists.", req.Name))
	}

	folderType := req.Type
	if folderType == "" {
		folderType = s.defaultType
	}

	now := time.Now().UTC()
	folder := Folder{
		ID:        uuid.New(),
		Owner:     req.Owner,
		Name:      req.Name,
		Type:      folderType,
		CreatedAt: now,
		UpdatedAt: now,
	}.Normalize()

	if req.ParentID != nil {
		parent, err := s.load(ctx, op, *req.ParentID, req.Owner)
		if err != nil {
			return Folder{}, err
		}

		subFolders := append(slices.Clone(parent.SubFolders), folder.ID)
		if _, err := s.repo.UpdateFields(ctx, parent.ID, FolderPatch{SubFolders: &subFolders}); err != nil {
			return Folder{}, fmt.Errorf("%s: update parent %s: %w", op, parent.ID, err)
		}
	}

	if err := s.repo.Put(ctx, folder); err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.containers.Create(ctx, folder.ID, folder.Owner); err != nil {
		slog.Warn("folder stored without bucket", "id", folder.ID, "owner", folder.Owner, "error", err)
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	return folder, nil
}

// Get returns the folder if it belongs to owner.
//
// Error types returned:
//   - ErrNotFound: No folder has that id
//   - ErrPermissionDenied: The folder belongs to another owner
func (s *FolderService) Get(ctx context.Context, id uuid.UUID, owner string) (Folder, error) {
	const op = "get folder"

	if err := ctx.Err(); err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	if owner == "" {
		return Folder{}, E(KindMissingIdentity, op, msgMissingIdentity)
	}

	return s.load(ctx, op, id, owner)
}

// List returns every folder owned by owner, following scan pages to the end.
func (s *FolderService) List(ctx context.Context, owner string) ([]Folder, error) {
	const op = "list folders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if owner == "" {
		return nil, E(KindMissingIdentity, op, msgMissingIdentity)
	}

	folders, err := ScanAll(ctx, s.repo, ScanQuery{Owner: owner, Limit: s.scanLimit})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range folders {
		folders[i] = folders[i].Normalize()
	}

	return folders, nil
}

// Update applies patch to a folder owned by owner and returns the stored
// result. Empty name or type values count as not supplied. Required files and
// sub folders replace the current lists; every listed sub folder must exist
// and belong to owner.
func (s *FolderService) Update(ctx context.Context, id uuid.UUID, owner string, patch FolderPatch) (Folder, error) {
	const op = "update folder"

	if err := ctx.Err(); err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	if owner == "" {
		return Folder{}, E(KindMissingIdentity, op, msgMissingIdentity)
	}

	folder, err := s.load(ctx, op, id, owner)
	if err != nil {
		return Folder{}, err
	}

	if patch.Name != nil && *patch.Name == "" {
		patch.Name = nil
	}
	if patch.Type != nil && *patch.Type == "" {
		patch.Type = nil
	}

	if patch.SubFolders != nil {
		for _, child := range *patch.SubFolders {
			if child == id {
				return Folder{}, E(KindInvalidPayload, op, "A folder cannot be its own sub folder.")
			}
			if _, err := s.load(ctx, op, child, owner); err != nil {
				return Folder{}, err
			}
		}
	}

	if patch.IsEmpty() {
		return folder, nil
	}

	updated, err := s.repo.UpdateFields(ctx, id, patch)
	if errors.Is(err, ErrNotFound) {
		return Folder{}, notFound(op, id)
	}
	if err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated.Normalize(), nil
}

// Delete removes a folder owned by owner together with its bucket.
//
// The method performs the following steps:
//  1. Loads the folder, enforcing ownership
//  2. Deletes the bucket
//  3. Removes the folder's id from each of its sub folders' own lists
//  4. Optionally removes the id from parents that list it (CascadeParentRefs)
//  5. Deletes the record
//
// Without CascadeParentRefs a parent keeps listing the deleted id.
func (s *FolderService) Delete(ctx context.Context, id uuid.UUID, owner string) error {
	const op = "delete folder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if owner == "" {
		return E(KindMissingIdentity, op, msgMissingIdentity)
	}

	folder, err := s.load(ctx, op, id, owner)
	if err != nil {
		return err
	}

	if err := s.containers.Delete(ctx, folder.ID, folder.Owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, childID := range folder.SubFolders {
		child, err := s.repo.Get(ctx, childID)
		if errors.Is(err, ErrNotFound) {
			slog.Warn("sub folder missing during delete", "id", id, "child", childID)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: load sub folder %s: %w", op, childID, err)
		}

		if err := s.unlink(ctx, child, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if s.cascadeParentRefs {
		folders, err := ScanAll(ctx, s.repo, ScanQuery{Owner: owner, Limit: s.scanLimit})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		for _, parent := range folders {
			if parent.ID == id {
				continue
			}
			if err := s.unlink(ctx, parent, id); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Reconcile checks that every folder record has a bucket. An empty owner
// checks all owners. With repair set, missing buckets are created.
//
// Records whose bucket name cannot be derived are listed in Invalid and
// skipped. Any other storage or database error stops the pass; the report
// holds what was processed up to that point.
func (s *FolderService) Reconcile(ctx context.Context, owner string, repair bool) (ReconcileReport, error) {
	const op = "reconcile"

	report := ReconcileReport{Missing: []uuid.UUID{}, Repaired: []uuid.UUID{}, Invalid: []uuid.UUID{}}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	folders, err := ScanAll(ctx, s.repo, ScanQuery{Owner: owner, Limit: s.scanLimit})
	if err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	for _, f := range folders {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("%s: %w", op, err)
		}

		report.Checked++

		exists, err := s.containers.Exists(ctx, f.ID, f.Owner)
		if errors.Is(err, ErrInvalidIdentifier) {
			slog.Warn("folder has no valid bucket name", "id", f.ID, "owner", f.Owner)
			report.Invalid = append(report.Invalid, f.ID)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("%s %s: %w", op, f.ID, err)
		}
		if exists {
			continue
		}

		report.Missing = append(report.Missing, f.ID)
		if !repair {
			continue
		}

		name, err := s.containers.Create(ctx, f.ID, f.Owner)
		if err != nil {
			return report, fmt.Errorf("%s %s: %w", op, f.ID, err)
		}
		slog.Info("bucket recreated", "id", f.ID, "owner", f.Owner, "bucket", name)
		report.Repaired = append(report.Repaired, f.ID)
	}

	return report, nil
}

// load fetches a folder and checks that it belongs to owner.
func (s *FolderService) load(ctx context.Context, op string, id uuid.UUID, owner string) (Folder, error) {
	folder, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Folder{}, notFound(op, id)
	}
	if err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	if folder.Owner != owner {
		return Folder{}, E(KindPermissionDenied, op, msgPermissionDenied)
	}

	return folder.Normalize(), nil
}

// unlink removes id from folder's sub folders if it is listed there.
func (s *FolderService) unlink(ctx context.Context, folder Folder, id uuid.UUID) error {
	if !folder.HasChild(id) {
		return nil
	}

	subFolders := folder.WithoutChild(id)
	_, err := s.repo.UpdateFields(ctx, folder.ID, FolderPatch{SubFolders: &subFolders})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unlink %s from %s: %w", id, folder.ID, err)
	}

	return nil
}

func notFound(op string, id uuid.UUID) *Error {
	return E(KindNotFound, op, fmt.Sprintf("Folder with ID %s not found.", id))
}
