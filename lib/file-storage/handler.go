package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"leave-tools-backend/config"
	"leave-tools-backend/db"
	filesdbstorage "leave-tools-backend/lib/file-storage/storage"
	s3client "leave-tools-backend/s3"
	dbmodels "leave-tools-backend/models/db"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type Provider interface {
	UploadLeaveDoc(ctx context.Context, spaceID, requestID, fileName, fileType string, file []byte) (docID string, err error)
	GetFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.FileStorage, error)
	GetDocList(requestID string) ([]dbmodels.FileStorage, error)
	MakeSpaceBucket(ctx context.Context, spaceID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		s3client:   s3client.Client,
		filesStore: filesdbstorage.NewInstance(db.DB),
	}
}

type impl struct {
	s3client   *minio.Client
	filesStore filesdbstorage.Provider
}

func (i impl) UploadLeaveDoc(ctx context.Context, spaceID, requestID, fileName, fileType string, file []byte) (docID string, err error) {
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	rec := dbmodels.FileStorage{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		RequestID:   requestID,
		FileName:    fileName,
		FileType:    dbmodels.LeaveDocumentFileType,
		ContentType: fileType,
		FileSize:    int64(len(file)),
	}
	docID, err = i.filesStore.SaveFile(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения метаданных документа")
	}
	err = i.MakeSpaceBucket(ctx, spaceID)
	if err != nil {
		return "", err
	}
	_, err = i.s3client.PutObject(ctx, i.getSpaceBucketName(spaceID), docID,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: rec.ContentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки документа в S3")
	}
	return docID, nil
}

func (i impl) GetFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.FileStorage, error) {
	rec, err := i.filesStore.GetByID(spaceID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, errors.New("документ не найден")
	}
	object, err := i.s3client.GetObject(ctx, i.getSpaceBucketName(spaceID), fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения документа из S3")
	}
	defer object.Close()
	body, err := io.ReadAll(object)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения документа из S3")
	}
	return body, rec, nil
}

func (i impl) GetDocList(requestID string) ([]dbmodels.FileStorage, error) {
	return i.filesStore.GetListByRequest(requestID)
}

func (i impl) MakeSpaceBucket(ctx context.Context, spaceID string) error {
	bucketName := i.getSpaceBucketName(spaceID)
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	return nil
}

func (i impl) getSpaceBucketName(spaceID string) string {
	return fmt.Sprintf("%s-%s", config.Conf.S3.BucketName, spaceID)
}
