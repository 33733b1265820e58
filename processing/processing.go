package processing

import (
	"log"
	"time"

	"facecheck/models"
	"facecheck/storage"
)

const (
	Skipped = 0
	Done    = 2
	Failed  = 3
)

// ThumbFailed marks checks whose thumbnail could not be created so they are not picked up again
const ThumbFailed = -1

type processingTask interface {
	getName() string
	shouldHandle(*models.Check) bool
	process(*models.Check, storage.StorageAPI) (status int, clean func())
}

var (
	tasks        = []processingTask{&thumb{}}
	batchSize    = 20
	idleInterval = 30 * time.Second
)

// ProcessPending runs all tasks on archived checks that still need work. It returns how many checks
// were processed and how many of them had a failing task.
func ProcessPending(storage storage.StorageAPI) (processed, failed int) {
	checks, err := models.PendingThumbnails(batchSize)
	if err != nil {
		log.Printf("processPending error: %v", err)
		return 0, 0
	}
	for i := range checks {
		if !processOne(&checks[i], storage) {
			failed++
		}
	}
	return len(checks), failed
}

func processOne(check *models.Check, storage storage.StorageAPI) (ok bool) {
	ok = true
	for _, task := range tasks {
		if !task.shouldHandle(check) {
			continue
		}
		start := time.Now()
		status, clean := task.process(check, storage)
		if clean != nil {
			clean()
		}
		log.Printf("Task %s, check: %s, result: %d, time: %v", task.getName(), check.ID, status, time.Since(start).Milliseconds())
		if status == Failed {
			ok = false
		}
	}
	return
}

// StartProcessing blocks, handling archived checks until stop is closed. Batches with failures wait
// like idle ones, a failed check that could not be marked would be picked up again right away.
func StartProcessing(storage storage.StorageAPI, stop <-chan struct{}) {
	for {
		if processed, failed := ProcessPending(storage); processed < batchSize || failed > 0 {
			select {
			case <-stop:
				return
			case <-time.After(idleInterval):
			}
			continue
		}
		select {
		case <-stop:
			return
		default:
		}
	}
}
