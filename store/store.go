//Package store fetches input structures from, and saves result bundles to,
//S3-compatible object storage.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

//PDBNotFoundError is returned when the bucket has no entry for a structure.
type PDBNotFoundError struct {
	ID string
}

func (E *PDBNotFoundError) Error() string {
	return fmt.Sprintf("pdb '%s' not found", E.ID)
}

//Backend is the object storage the Store talks to. Get returns an error
//wrapping os.ErrNotExist for missing objects.
type Backend interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
}

//Config locates the bucket. Credentials are taken from the environment
//(AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY) or ~/.aws/credentials.
type Config struct {
	Endpoint string
	Region   string
	Bucket   string
	Insecure bool
}

//SetDefaults fills the zero fields with the usual values.
func (C *Config) SetDefaults() {
	if C.Endpoint == "" {
		C.Endpoint = "sfo2.digitaloceanspaces.com"
	}
	if C.Region == "" {
		C.Region = "us-east-1"
	}
	if C.Bucket == "" {
		C.Bucket = "pdb"
	}
	//minio wants a host, not a URL
	C.Endpoint = strings.TrimPrefix(strings.TrimPrefix(C.Endpoint, "https://"), "http://")
}

//Store reads and writes the objects of one bucket.
type Store struct {
	Backend Backend
	Bucket  string
}

//New returns a store backed by the S3 service described by C.
func New(C *Config) (*Store, error) {
	if C == nil {
		C = new(Config)
	}
	C.SetDefaults()
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
	})
	client, err := minio.New(C.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: !C.Insecure,
		Region: C.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	return &Store{Backend: &minioBackend{client}, Bucket: C.Bucket}, nil
}

type minioBackend struct {
	client *minio.Client
}

func (M *minioBackend) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := M.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	//GetObject is lazy, Stat makes the request.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, os.ErrNotExist)
		}
		return nil, err
	}
	return obj, nil
}

func (M *minioBackend) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	_, err := M.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

//ObjectName is the key under which structure pdbID is stored.
func ObjectName(pdbID string) string {
	return fmt.Sprintf("pdb%s.ent.gz", strings.ToLower(pdbID))
}

//DownloadPDB writes the uncompressed entry of pdbID to w.
func (S *Store) DownloadPDB(ctx context.Context, pdbID string, w io.Writer) error {
	pdbID = strings.ToLower(pdbID)
	obj, err := S.Backend.Get(ctx, S.Bucket, ObjectName(pdbID))
	if errors.Is(err, os.ErrNotExist) {
		return &PDBNotFoundError{ID: pdbID}
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", pdbID, err)
	}
	defer obj.Close()
	z, err := gzip.NewReader(obj)
	if err != nil {
		return fmt.Errorf("download %s: %w", pdbID, err)
	}
	defer z.Close()
	if _, err := io.Copy(w, z); err != nil {
		return fmt.Errorf("download %s: %w", pdbID, err)
	}
	return nil
}

//DownloadPDBFile saves the uncompressed entry of pdbID to path.
func (S *Store) DownloadPDBFile(ctx context.Context, pdbID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := S.DownloadPDB(ctx, pdbID, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	log.Printf("Downloaded %s to %s", pdbID, path)
	return f.Close()
}

//Upload stores data under key.
func (S *Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if err := S.Backend.Put(ctx, S.Bucket, key, bytesReader(data), int64(len(data)), contentType); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	log.Printf("Uploaded %s (%d bytes)", key, len(data))
	return nil
}
