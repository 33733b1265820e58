package models

import (
	"errors"
	"fmt"

	"facecheck/db"
	"facecheck/faces"
	"facecheck/utils"

	"gorm.io/gorm"
)

// ReferenceDescriptor caches the descriptor of a reference photo, keyed by a hash of the photo and the model identity
type ReferenceDescriptor struct {
	Hash       string `gorm:"type:varchar(128);primaryKey"`
	CreatedAt  int64
	Descriptor []byte `gorm:"type:blob"`
}

// ReferenceStore implements verifier.ReferenceCache on top of the database
type ReferenceStore struct{}

func (ReferenceStore) LoadReference(hash string) (*faces.Descriptor, error) {
	ref := ReferenceDescriptor{}
	err := db.Instance.Where("hash = ?", hash).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	values := utils.ByteArrayToFloat32Array(ref.Descriptor)
	if len(values) != faces.DescriptorSize {
		return nil, fmt.Errorf("cached descriptor has %d values", len(values))
	}
	result := faces.Descriptor{}
	copy(result[:], values)
	return &result, nil
}

func (ReferenceStore) SaveReference(hash string, descriptor faces.Descriptor) error {
	return db.Instance.Save(&ReferenceDescriptor{
		Hash:       hash,
		Descriptor: utils.Float32ArrayToByteArray(descriptor[:]),
	}).Error
}
