package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platefeed/backend/config"
)

// ImageService stores recipe images in S3 and hands back public URLs.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance. s3Config may be nil
// when storage is not configured; uploads then fail with ErrStorageUnavailable.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// Upload stores the image bytes under a fresh key and returns the public URL.
// fileName is only used for its extension; unknown extensions default to png.
func (s *ImageService) Upload(ctx context.Context, imageData []byte, fileName string) (string, error) {
	if s.s3Config == nil {
		return "", ErrStorageUnavailable
	}

	ext := strings.ToLower(path.Ext(fileName))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		ext = ".png"
		contentType = "image/png"
	}
	key := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageService] Uploaded image to S3: %s", publicURL)
	return publicURL, nil
}
