package storage

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"facecheck/config"
)

type StorageSpecificAPI interface {
	GetFullPath(path string) string
	EnsureDirExists(dir string) error
	EnsureLocalFile(path string) error
	ReleaseLocalFile(path string)
	DeleteRemoteFile(path string) error
	UpdateFile(path, mimeType string) error
	GetFreeSpace() uint64
}

type StorageAPI interface {
	StorageSpecificAPI

	GetSize(path string) int64
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetBucket() *Bucket
}

type Storage struct {
	specifics StorageSpecificAPI
	Bucket    Bucket
}

// Archive is nil when uploads are not kept
var Archive StorageAPI

func Init() {
	Archive = nil
	if config.ARCHIVE_S3_BUCKET != "" {
		Archive = NewS3Storage(&Bucket{
			Name:        config.ARCHIVE_S3_BUCKET,
			StorageType: StorageTypeS3,
			Path:        config.ARCHIVE_DIR,
			Region:      config.ARCHIVE_S3_REGION,
			Endpoint:    config.ARCHIVE_S3_ENDPOINT,
			AuthDetails: config.ARCHIVE_S3_AUTH,
		})
	} else if config.ARCHIVE_DIR != "" {
		Archive = NewDiskStorage(&Bucket{
			Name:        "archive",
			StorageType: StorageTypeFile,
			Path:        config.ARCHIVE_DIR,
		})
	}
	if Archive != nil {
		log.Printf("Archive storage: %+v", Archive.GetBucket().Name)
	} else {
		log.Println("Archive storage disabled")
	}
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

//
// NOTE: All the functions below work on a local file
//

func (s *Storage) GetSize(path string) int64 {
	fi, err := os.Stat(s.GetFullPath(path))
	if err != nil {
		return -1
	}
	return fi.Size()
}

func (s *Storage) Save(path string, reader io.Reader) (int64, error) {
	fileName := s.GetFullPath(path)
	if err := s.EnsureDirExists(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, err
}

func (s *Storage) Load(path string, writer io.Writer) (int64, error) {
	fileName := s.GetFullPath(path)
	file, err := os.Open(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (s *Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName := s.GetFullPath(path)
	http.ServeFile(writer, request, fileName)
}

func (s *Storage) Delete(path string) error {
	return os.Remove(s.GetFullPath(path))
}

//
// Proxy methods
//

func (s *Storage) GetFullPath(path string) string {
	return s.specifics.GetFullPath(path)
}
func (s *Storage) EnsureDirExists(dir string) error {
	return s.specifics.EnsureDirExists(dir)
}
func (s *Storage) EnsureLocalFile(path string) error {
	return s.specifics.EnsureLocalFile(path)
}
func (s *Storage) ReleaseLocalFile(path string) {
	s.specifics.ReleaseLocalFile(path)
}
func (s *Storage) DeleteRemoteFile(path string) error {
	return s.specifics.DeleteRemoteFile(path)
}
func (s *Storage) UpdateFile(path, mimeType string) error {
	return s.specifics.UpdateFile(path, mimeType)
}
func (s *Storage) GetFreeSpace() uint64 {
	return s.specifics.GetFreeSpace()
}
