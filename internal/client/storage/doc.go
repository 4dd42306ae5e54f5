// Package storage writes export snapshots to their destination: a local
// file or an object in S3 (or an S3 compatible store such as MinIO).
//
// Destinations of the form "s3://bucket/key" select S3; anything else is a
// file path.
package storage
