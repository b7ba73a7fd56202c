package contracts

import "context"

type Storage interface {
	UploadObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (string, error)
}
