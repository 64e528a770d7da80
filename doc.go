// Package foldery manages a per-owner hierarchy of folders, each backed by a
// metadata record and a dedicated storage bucket.
//
// Foldery keeps the metadata store and the bucket backend consistent under
// create, read, update and delete while enforcing that only a folder's owner
// can see or change it.
//
// # Key Components
//
//   - FolderService: Lifecycle operations combining a repo and a bucket backend
//   - FolderRepo: Interface for folder metadata (SQLite, PostgreSQL, Badger, memory)
//   - BucketStorage: Interface for bucket provisioning (filesystem, S3, memory)
//   - Containers: Bucket naming through SanitizeBucketName
//   - Error: Classified errors carrying a Kind and its HTTP status
//
// # Consistency
//
// No operation spans stores transactionally. Create writes the record before
// the bucket, so a failure in between leaves a record without a bucket;
// FolderService.Reconcile finds and repairs those.
//
// # Example Usage
//
//	service, err := foldery.NewFolderService(repo, buckets, foldery.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	folder, err := service.Create(ctx, foldery.CreateFolder{Name: "Q1", Owner: "u1"})
//
//	folders, err := service.List(ctx, "u1")
//
// See the http package for the REST API and the database and storage packages
// for backend implementations.
package foldery
