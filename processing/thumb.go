package processing

import (
	"bytes"
	"log"

	"facecheck/config"
	"facecheck/models"
	"facecheck/storage"
	"facecheck/utils"
)

type thumb struct{}

func (t *thumb) getName() string {
	return "thumb"
}

func (t *thumb) shouldHandle(check *models.Check) bool {
	return check.Path != "" && check.ThumbSize == 0
}

func (t *thumb) process(checkIn *models.Check, storage storage.StorageAPI) (status int, clean func()) {
	check := *checkIn
	if err := storage.EnsureLocalFile(check.Path); err != nil {
		log.Printf("Error fetching %s for check %s: %v", check.Path, check.ID, err)
		return t.fail(checkIn), nil
	}
	clean = func() {
		storage.ReleaseLocalFile(check.Path)
	}
	var original, thumbBuf bytes.Buffer
	if _, err := storage.Load(check.Path, &original); err != nil {
		log.Printf("Cannot load %s for check %s: %v", check.Path, check.ID, err)
		return t.fail(checkIn), clean
	}
	info, err := utils.CreateThumb(uint(config.THUMB_SIZE), config.MAX_IMAGE_PIXELS, &original, &thumbBuf)
	if err != nil {
		log.Printf("Error creating thumbnail for check %s: %v", check.ID, err)
		return t.fail(checkIn), clean
	}
	check.ThumbPath = check.GetThumbPath()
	if check.ThumbSize, err = storage.Save(check.ThumbPath, &thumbBuf); err != nil {
		log.Printf("Cannot save thumbnail for check %s: %v", check.ID, err)
		return t.fail(checkIn), clean
	}
	releaseOriginal := clean
	clean = func() {
		releaseOriginal()
		storage.ReleaseLocalFile(check.ThumbPath)
	}
	if err = storage.UpdateFile(check.ThumbPath, "image/jpeg"); err != nil {
		log.Printf("Error in storage.UpdateFile for check %s (%s): %v", check.ID, check.ThumbPath, err)
		return t.fail(checkIn), clean
	}
	if check.Width == 0 || check.Height == 0 {
		check.Width = info.OldX
		check.Height = info.OldY
	}
	if err = check.Save(); err != nil {
		log.Printf("Error saving check %s: %v", check.ID, err)
		return Failed, clean
	}
	*checkIn = check
	return Done, clean
}

func (t *thumb) fail(check *models.Check) int {
	check.ThumbSize = ThumbFailed
	if err := check.Save(); err != nil {
		log.Printf("Error saving check %s: %v", check.ID, err)
	}
	return Failed
}
