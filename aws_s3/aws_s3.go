package aws_s3

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

const PRESIGN_EXPIRATION = time.Minute * 15

var settingsData = settings.GetSettings()

var awsInstance *AWSS3
var awsLock = &sync.Mutex{}

type UploadResult struct {
	Key      string
	Location string
	Filename string
	Mime     string
	Size     int64
}

type AWSS3 struct {
	once sync.Once
	sess *session.Session
	err  error
}

func (a *AWSS3) session() (*session.Session, error) {
	a.once.Do(func() {
		a.sess, a.err = session.NewSession(&aws.Config{
			Region: aws.String(settingsData.AWS_REGION),
		})
	})
	return a.sess, a.err
}

// BuildKey namespaces the object under prefix with a random name and the
// original extension.
func BuildKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), ext)
}

func (a *AWSS3) UploadFile(file *multipart.FileHeader, prefix string) (*UploadResult, error) {
	sess, err := a.session()
	if err != nil {
		return nil, err
	}
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mime := file.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	key := BuildKey(prefix, file.Filename)
	uploader := s3manager.NewUploader(sess)
	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(settingsData.AWS_BUCKET),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mime),
	})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		Key:      key,
		Location: result.Location,
		Filename: file.Filename,
		Mime:     mime,
		Size:     file.Size,
	}, nil
}

func (a *AWSS3) GetFile(key string) ([]byte, error) {
	sess, err := a.session()
	if err != nil {
		return nil, err
	}
	out, err := s3.New(sess).GetObject(&s3.GetObjectInput{
		Bucket: aws.String(settingsData.AWS_BUCKET),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *AWSS3) GetPresignedURL(key string) (string, error) {
	sess, err := a.session()
	if err != nil {
		return "", err
	}
	req, _ := s3.New(sess).GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(settingsData.AWS_BUCKET),
		Key:    aws.String(key),
	})
	return req.Presign(PRESIGN_EXPIRATION)
}

func (a *AWSS3) DeleteFile(key string) error {
	sess, err := a.session()
	if err != nil {
		return err
	}
	_, err = s3.New(sess).DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(settingsData.AWS_BUCKET),
		Key:    aws.String(key),
	})
	return err
}

func NewAWSS3() *AWSS3 {
	awsLock.Lock()
	defer awsLock.Unlock()
	if awsInstance == nil {
		awsInstance = &AWSS3{}
	}
	return awsInstance
}
