package controllers

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"layanan-publik-api/config"
	"layanan-publik-api/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// useMockDB points the package-global DB at a sqlmock connection for the
// duration of one test.
func useMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	prev := config.DB
	config.DB = gdb
	t.Cleanup(func() {
		config.DB = prev
		conn.Close()
	})

	return mock
}

type recordingMailer struct {
	mu          sync.Mutex
	sent        []string // recipients
	lastSubject string
	lastHTML    string
	id          string
	err         error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	m.lastSubject = subject
	m.lastHTML = html
	return m.id, m.err
}

func (m *recordingMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func (m *recordingMailer) html() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHTML
}

// useMailer swaps the production SMTP mailer for a fake.
func useMailer(t *testing.T, m services.Mailer) {
	t.Helper()
	prev := notifierMailer
	notifierMailer = m
	t.Cleanup(func() { notifierMailer = prev })
}

// waitForExpectations polls until the detached notification goroutine has
// satisfied the remaining sqlmock expectations.
func waitForExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
