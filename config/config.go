package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS          = "" // e.g. "example.com,example2.com"
	BIND_ADDRESS         = "0.0.0.0:8080"
	DEBUG_MODE           = true
	MODELS_DIR           = "./models"        // dlib models: shape predictor, resnet recognition model, mmod detector
	REFERENCE_IMAGE      = "./reference.jpg" // Photo of the person every upload is compared against
	REFERENCE_NAME       = "Person X"        // Shown in the result messages
	FACE_MATCH_THRESHOLD = 0.48              // Distance below which two faces are the same person
	FACE_DETECT_CNN      = false             // Use Convolutional Neural Network for face detection (as opposed to HOG). Much slower, supposedly more accurate at different angles
	MAX_IMAGE_SIZE       = 1280              // Images are downscaled to this before detection
	MAX_IMAGE_PIXELS     = 50_000_000        // Larger images are rejected before decoding
	MAX_UPLOAD_SIZE      = int64(20 << 20)   // bytes
	MYSQL_DSN            = ""                // MySQL will be used if this is set
	SQLITE_FILE          = ""                // SQLite will be used if MYSQL_DSN is not configured and this is set
	ARCHIVE_DIR          = ""                // Uploaded photos are kept here if set
	ARCHIVE_S3_BUCKET    = ""                // ... or in this S3 bucket if set (ARCHIVE_DIR is then the key prefix)
	ARCHIVE_S3_REGION    = "us-east-1"
	ARCHIVE_S3_ENDPOINT  = ""     // For S3 compatible services
	ARCHIVE_S3_AUTH      = ""     // "key:secret"
	TMP_DIR              = "/tmp" // Local copies of S3 objects
	THUMB_SIZE           = 320
	ADMIN_TOKEN          = "" // Required for history and reference reload, these are disabled when empty
	SESSION_KEY          = defaultSessionKey
)

const defaultSessionKey = "this is a long key"

func init() {
	Load()
}

// Load (re)reads all settings from the environment. A .env file in the working directory is read first.
func Load() {
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("MODELS_DIR", &MODELS_DIR)
	readEnvString("REFERENCE_IMAGE", &REFERENCE_IMAGE)
	readEnvString("REFERENCE_NAME", &REFERENCE_NAME)
	readEnvFloat("FACE_MATCH_THRESHOLD", &FACE_MATCH_THRESHOLD)
	readEnvBool("FACE_DETECT_CNN", &FACE_DETECT_CNN)
	readEnvInt("MAX_IMAGE_SIZE", &MAX_IMAGE_SIZE)
	readEnvInt("MAX_IMAGE_PIXELS", &MAX_IMAGE_PIXELS)
	readEnvInt64("MAX_UPLOAD_SIZE", &MAX_UPLOAD_SIZE)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("ARCHIVE_DIR", &ARCHIVE_DIR)
	readEnvString("ARCHIVE_S3_BUCKET", &ARCHIVE_S3_BUCKET)
	readEnvString("ARCHIVE_S3_REGION", &ARCHIVE_S3_REGION)
	readEnvString("ARCHIVE_S3_ENDPOINT", &ARCHIVE_S3_ENDPOINT)
	readEnvString("ARCHIVE_S3_AUTH", &ARCHIVE_S3_AUTH)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
	readEnvString("ADMIN_TOKEN", &ADMIN_TOKEN)
	readEnvString("SESSION_KEY", &SESSION_KEY)
}

// DefaultSessionKey reports whether session cookies are signed with the built-in, publicly known key
func DefaultSessionKey() bool {
	return SESSION_KEY == defaultSessionKey
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt64(name string, value *int64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return
	}
	*value = f
}
