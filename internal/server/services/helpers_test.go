package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/placerate/internal/server/config"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/sqlitetest"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		BcryptCost:                   bcrypt.MinCost,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "cards",
	}
}

type testEnv struct {
	db    *sql.DB
	rm    repomanager.RepositoryManager
	users *UserService
	cards *CardService
}

// newTestEnv wires the services to a migrated SQLite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := sqlitetest.Open(t)
	rm := repomanager.NewSQLiteRepositoryManager()
	return &testEnv{
		db:    db,
		rm:    rm,
		users: NewUserService(db, rm, testConfig()),
		cards: NewCardService(db, rm),
	}
}
