package models

import (
	"path/filepath"
	"strings"
	"time"

	"facecheck/db"
	"facecheck/storage"
	"facecheck/utils"
	"facecheck/verifier"

	"github.com/google/uuid"
)

// Check is one uploaded photo compared against the reference
type Check struct {
	ID        string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt int64    `gorm:"index" json:"created"`
	FileName  string   `gorm:"type:varchar(300)" json:"name"`
	MimeType  string   `gorm:"type:varchar(100)" json:"mime_type"`
	Size      int64    `json:"size"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Kind      string   `gorm:"type:varchar(20)" json:"kind"`
	Message   string   `gorm:"type:varchar(300)" json:"message"`
	Distance  *float64 `json:"distance"`
	Matched   bool     `json:"matched"`
	Path      string   `gorm:"type:varchar(500)" json:"-"` // Empty when not archived
	ThumbPath string   `gorm:"type:varchar(500)" json:"-"`
	ThumbSize int64    `json:"thumb_size"`
}

func NewCheck(fileName, mimeType string) Check {
	return Check{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().Unix(),
		FileName:  fileName,
		MimeType:  mimeType,
	}
}

func (c *Check) SetStatus(status verifier.Status) {
	c.Kind = string(status.Kind)
	c.Message = status.Message
	c.Distance = status.Distance
	c.Matched = status.Matched
}

// GetPath returns where the uploaded photo goes: checks/<year>/<month>/<id><ext>
func (c *Check) GetPath() string {
	ext := strings.ToLower(filepath.Ext(c.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	return storage.StorageLocationChecks + "/" + utils.DatePath(time.Unix(c.CreatedAt, 0)) + "/" + c.ID + ext
}

func (c *Check) GetThumbPath() string {
	return storage.StorageLocationThumbs + "/" + utils.DatePath(time.Unix(c.CreatedAt, 0)) + "/" + c.ID + ".jpg"
}

func (c *Check) Create() error {
	return db.Instance.Create(c).Error
}

func (c *Check) Save() error {
	return db.Instance.Save(c).Error
}

// ListChecks returns the newest checks first
func ListChecks(limit, offset int) (result []Check, err error) {
	err = db.Instance.Order("created_at DESC").Order("id").Limit(limit).Offset(offset).Find(&result).Error
	return
}

func FindCheck(id string) (result Check, err error) {
	err = db.Instance.Where("id = ?", id).First(&result).Error
	return
}

// PendingThumbnails returns archived checks without a thumbnail
func PendingThumbnails(limit int) (result []Check, err error) {
	err = db.Instance.
		Where("path != '' AND thumb_size = 0").
		Order("created_at ASC").
		Limit(limit).
		Find(&result).Error
	return
}
