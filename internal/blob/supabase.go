package blob

import (
	"context"
	"fmt"
	"io"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseStore stores audio objects in a Supabase storage bucket so
// transcription providers can fetch them by public URL.
type SupabaseStore struct {
	client *storage.Client
	bucket string
}

// NewSupabaseStore builds a store for the given project URL, service key and
// bucket.
func NewSupabaseStore(projectURL, serviceKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		client: storage.NewClient(projectURL+"/storage/v1", serviceKey, nil),
		bucket: bucket,
	}
}

// Put uploads the object and returns its public URL.
func (s *SupabaseStore) Put(_ context.Context, name string, r io.Reader, contentType string) (PutResult, error) {
	_, err := s.client.UploadFile(s.bucket, name, r, storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return PutResult{}, fmt.Errorf("supabase upload failed: %w", err)
	}

	public := s.client.GetPublicUrl(s.bucket, name)
	return PutResult{URL: public.SignedURL}, nil
}
