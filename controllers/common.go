package controllers

import (
	"os"
	"time"

	"gorm.io/gorm"

	"layanan-publik-api/config"
	"layanan-publik-api/services"
)

// dispatchTimeout bounds the detached email send triggered by a status
// change. On expiry the dispatcher records a failure outcome like any
// other transport error.
const dispatchTimeout = 30 * time.Second

func getDB() *gorm.DB { return config.DB }

func getStore() *services.SubmissionStore {
	return services.NewSubmissionStore(getDB())
}

// notifierMailer is swapped for a fake in handler tests.
var notifierMailer services.Mailer = services.SMTPMailer{}

func getNotifier() *services.Notifier {
	return services.NewNotifier(getDB(), notifierMailer, os.Getenv("APP_BASE_URL"))
}
