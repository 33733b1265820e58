package models

import (
	"facecheck/db"
)

func Init() error {
	return db.Instance.AutoMigrate(&Check{}, &ReferenceDescriptor{})
}
