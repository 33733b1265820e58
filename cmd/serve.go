package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"facecheck/config"
	"facecheck/db"
	"facecheck/handlers"
	"facecheck/models"
	"facecheck/processing"
	"facecheck/storage"
	"facecheck/verifier"
	"facecheck/web"

	"github.com/gin-gonic/autotls"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web server with the upload page, the JSON API and the status websocket.
The models are loaded in the background, the page shows the progress.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&config.BIND_ADDRESS, "bind", config.BIND_ADDRESS, "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	if config.DefaultSessionKey() {
		log.Println("WARNING: SESSION_KEY is not set, session cookies are signed with a publicly known key")
	}
	checker := verifier.New(config.REFERENCE_NAME, config.FACE_MATCH_THRESHOLD)

	err := db.Init()
	switch {
	case err == nil:
		if err := models.Init(); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		checker.Cache = models.ReferenceStore{}
	case errors.Is(err, db.ErrNotConfigured):
		log.Println("No database configured, history disabled")
	default:
		return fmt.Errorf("database: %w", err)
	}

	storage.Init()
	if storage.Archive != nil {
		if db.Instance == nil {
			log.Println("Archive storage needs a database, uploads will not be kept")
			storage.Archive = nil
		} else {
			go processing.StartProcessing(storage.Archive, nil)
		}
	}

	handlers.Setup(checker, referenceFile(config.REFERENCE_IMAGE))
	go func() {
		if err := checker.Initialize(loadModels, handlers.Reference); err != nil {
			log.Printf("Initialization failed: %v", err)
		}
	}()
	defer checker.Close()

	router := web.NewRouter()
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	return fmt.Errorf("server stopped: %w", err)
}
